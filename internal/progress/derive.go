package progress

import "time"

type monitorState struct {
	lastAt          time.Time
	lastTransferred int64
}

// derive computes the event for sample against the previous state. ok is false
// when the total is unknown; the returned state must then be discarded.
func derive(label string, st monitorState, s Sample) (Event, monitorState, bool) {
	if s.Total <= 0 {
		return Event{}, st, false
	}

	// A total that shrinks below bytes already reported is raised so events
	// never move backwards.
	total := max(s.Total, st.lastTransferred)
	transferred := min(max(s.Transferred, st.lastTransferred), total)

	var rate float64
	if dt := s.At.Sub(st.lastAt).Seconds(); dt > 0 {
		rate = float64(max(0, transferred-st.lastTransferred)) / dt
	}

	ev := Event{
		Label:       label,
		Transferred: transferred,
		Total:       total,
		Percent:     float64(transferred) / float64(total) * 100,
		Rate:        rate,
	}
	if rate > 0 {
		ev.ETA = time.Duration(float64(total-transferred) / rate * float64(time.Second))
		ev.ETAKnown = true
	}

	return ev, monitorState{lastAt: s.At, lastTransferred: transferred}, true
}

func finalEvent(label string, total int64) Event {
	return Event{
		Label:       label,
		Transferred: total,
		Total:       total,
		Percent:     100,
		ETAKnown:    true,
		Final:       true,
	}
}
