package dialog

import "strings"

// StartGift enters the recommendation interview.
func StartGift(sess *Session) []Effect {
	sess.Flow = FlowGift
	sess.State = GiftAwaitWho
	sess.Gift = GiftProfile{}
	return []Effect{prompt("gift_ask_who")}
}

func nextGift(sess *Session, ev Event) []Effect {
	if ev.Kind != EventText {
		// Buttons have no meaning mid-interview; repeat the question.
		return []Effect{prompt(giftPromptKey(sess.State))}
	}
	answer := strings.TrimSpace(ev.Text)
	if answer == "" {
		return []Effect{prompt(giftPromptKey(sess.State))}
	}

	switch sess.State {
	case GiftAwaitWho:
		sess.Gift.Who = answer
		sess.State = GiftAwaitOccasion
		return []Effect{prompt("gift_ask_occasion")}
	case GiftAwaitOccasion:
		sess.Gift.Occasion = answer
		sess.State = GiftAwaitAge
		return []Effect{prompt("gift_ask_age")}
	case GiftAwaitAge:
		sess.Gift.Age = answer
		sess.State = GiftAwaitRelation
		return []Effect{prompt("gift_ask_relation")}
	case GiftAwaitRelation:
		sess.Gift.Relation = answer
		sess.State = GiftAwaitBudget
		return []Effect{prompt("gift_ask_budget")}
	case GiftAwaitBudget:
		sess.Gift.Budget = answer
		sess.State = GiftAwaitInterests
		return []Effect{prompt("gift_ask_interests")}
	case GiftAwaitInterests:
		sess.Gift.Interests = answer
		sess.State = GiftGenerating
		return []Effect{prompt("gift_thinking"), {Kind: EffGenerate}}
	case GiftGenerating:
		// Generation is still running for this user; input is queued
		// behind the session lock, so reaching here means the previous
		// run already finished and the state was not advanced.
		return []Effect{prompt("gift_busy")}
	default:
		sess.Reset()
		return []Effect{{Kind: EffMenu}}
	}
}

// FinishGift records the outcome of a generation attempt. The rendered
// recommendation itself is sent by the caller; the machine leaves the
// GENERATING state and drops the collected profile.
func FinishGift(sess *Session, ok bool) []Effect {
	sess.Flow = FlowNone
	sess.State = StateIdle
	sess.Gift = GiftProfile{}
	if !ok {
		return []Effect{prompt("gift_error"), {Kind: EffMenu}}
	}
	return []Effect{prompt("gift_done_hint"), {Kind: EffMenu}}
}

func giftPromptKey(st State) string {
	switch st {
	case GiftAwaitWho:
		return "gift_ask_who"
	case GiftAwaitOccasion:
		return "gift_ask_occasion"
	case GiftAwaitAge:
		return "gift_ask_age"
	case GiftAwaitRelation:
		return "gift_ask_relation"
	case GiftAwaitBudget:
		return "gift_ask_budget"
	case GiftAwaitInterests:
		return "gift_ask_interests"
	case GiftGenerating:
		return "gift_busy"
	default:
		return "choose_option"
	}
}
