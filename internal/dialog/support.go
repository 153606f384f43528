package dialog

import "strings"

// StartSupport enters the support flow.
func StartSupport(sess *Session) []Effect {
	sess.Flow = FlowSupport
	sess.State = SupportAwaitMessage
	return []Effect{prompt("support_intro")}
}

func nextSupport(sess *Session, ev Event) []Effect {
	if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
		return []Effect{prompt("support_intro")}
	}
	text := strings.TrimSpace(ev.Text)
	sess.Reset()
	return []Effect{
		{Kind: EffForward, Text: text},
		prompt("support_sent"),
		{Kind: EffMenu},
	}
}
