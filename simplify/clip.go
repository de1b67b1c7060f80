package simplify

import (
	"github.com/jsphweid/motifdex/model"
	"github.com/sirupsen/logrus"
)

// ClipToLastBar cuts notes that ring past the end of the last bar.
func ClipToLastBar(notes model.Notes, bars []model.Bar) model.Notes {
	res := model.CloneNotes(notes)
	if len(bars) == 0 {
		return res
	}
	end := bars[len(bars)-1].EndTick()
	for i := range res {
		switch {
		case res[i].StartTick >= end:
			logrus.WithFields(logrus.Fields{
				"pitch": res[i].Pitch,
				"start": res[i].StartTick,
				"end":   end,
			}).Warn("note starts after the last bar")
		case res[i].EndTick > end:
			res[i].EndTick = end
		}
	}
	return res
}
