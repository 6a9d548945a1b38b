package export

import (
	"strconv"

	"github.com/abhisek/studyplan/internal/schedule"
)

// Dataset is a header row plus keyed records.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

var slotHeaders = []string{"Date", "Start", "End", "Activity", "Subject", "Chapter", "Cards", "Reason"}

// slotDataset flattens every slot of res, breaks included, into one row.
func slotDataset(res *schedule.Result) Dataset {
	data := Dataset{Headers: slotHeaders}
	for _, day := range res.Days {
		for _, s := range day.Slots {
			cards := ""
			if s.Cards > 0 {
				cards = strconv.Itoa(s.Cards)
			}
			data.Rows = append(data.Rows, map[string]string{
				"Date":     day.Date.String(),
				"Start":    s.Start.String(),
				"End":      s.End.String(),
				"Activity": string(s.Activity),
				"Subject":  s.Subject,
				"Chapter":  s.ChapterID,
				"Cards":    cards,
				"Reason":   s.Reason,
			})
		}
	}
	return data
}
