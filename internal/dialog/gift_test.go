package dialog

import (
	"testing"

	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/texts"
)

func mustProduct(t *testing.T, id string) catalog.Product {
	t.Helper()
	p, ok := catalog.ByID(id)
	if !ok {
		t.Fatalf("product %q missing from catalog", id)
	}
	return p
}

func TestGiftInterview(t *testing.T) {
	sess := &Session{Lang: texts.LangRU}
	effs := StartGift(sess)
	if sess.Flow != FlowGift || sess.State != GiftAwaitWho {
		t.Fatalf("flow=%q state=%q", sess.Flow, sess.State)
	}
	if key := firstPromptKey(t, effs); key != "gift_ask_who" {
		t.Fatalf("prompt = %q", key)
	}

	steps := []struct {
		answer    string
		wantState State
		wantKey   string
	}{
		{"pentru mama", GiftAwaitOccasion, "gift_ask_occasion"},
		{"ziua ei", GiftAwaitAge, "gift_ask_age"},
		{"52", GiftAwaitRelation, "gift_ask_relation"},
		{"mama", GiftAwaitBudget, "gift_ask_budget"},
		{"800", GiftAwaitInterests, "gift_ask_interests"},
	}
	for _, st := range steps {
		effs = Next(sess, TextEvent(st.answer), Options{})
		if sess.State != st.wantState {
			t.Fatalf("after %q: state = %q, want %q", st.answer, sess.State, st.wantState)
		}
		if key := firstPromptKey(t, effs); key != st.wantKey {
			t.Fatalf("after %q: prompt = %q, want %q", st.answer, key, st.wantKey)
		}
	}

	effs = Next(sess, TextEvent("flori și ceai"), Options{})
	if sess.State != GiftGenerating {
		t.Fatalf("state = %q, want generating", sess.State)
	}
	kinds := effectKinds(effs)
	if len(kinds) != 2 || kinds[0] != EffPrompt || kinds[1] != EffGenerate {
		t.Fatalf("effects = %v", kinds)
	}
	want := GiftProfile{
		Who: "pentru mama", Occasion: "ziua ei", Age: "52",
		Relation: "mama", Budget: "800", Interests: "flori și ceai",
	}
	if sess.Gift != want {
		t.Fatalf("profile = %+v", sess.Gift)
	}
}

func TestGiftEmptyAnswerReprompts(t *testing.T) {
	sess := &Session{Lang: texts.LangRO}
	StartGift(sess)
	effs := Next(sess, TextEvent("   "), Options{})
	if sess.State != GiftAwaitWho {
		t.Fatalf("state advanced on blank answer: %q", sess.State)
	}
	if key := firstPromptKey(t, effs); key != "gift_ask_who" {
		t.Fatalf("prompt = %q", key)
	}
}

func TestGiftBusyWhileGenerating(t *testing.T) {
	sess := &Session{Lang: texts.LangRO, Flow: FlowGift, State: GiftGenerating}
	effs := Next(sess, TextEvent("alta idee"), Options{})
	if sess.State != GiftGenerating {
		t.Fatalf("state = %q", sess.State)
	}
	if key := firstPromptKey(t, effs); key != "gift_busy" {
		t.Fatalf("prompt = %q", key)
	}
}

func TestFinishGift(t *testing.T) {
	sess := &Session{
		Lang:  texts.LangRO,
		Flow:  FlowGift,
		State: GiftGenerating,
		Gift:  GiftProfile{Who: "mama", Budget: "800"},
	}
	effs := FinishGift(sess, true)
	if sess.InFlow() {
		t.Fatal("still in flow")
	}
	if sess.Gift != (GiftProfile{}) {
		t.Fatalf("profile kept after finish: %+v", sess.Gift)
	}
	if key := firstPromptKey(t, effs); key != "gift_done_hint" {
		t.Fatalf("prompt = %q", key)
	}

	sess = &Session{Lang: texts.LangRO, Flow: FlowGift, State: GiftGenerating, Gift: GiftProfile{Who: "mama"}}
	effs = FinishGift(sess, false)
	if key := firstPromptKey(t, effs); key != "gift_error" {
		t.Fatalf("prompt = %q", key)
	}
	if sess.Gift != (GiftProfile{}) {
		t.Fatalf("profile kept after failed finish: %+v", sess.Gift)
	}
}

func TestNextOutsideFlowShowsMenu(t *testing.T) {
	sess := &Session{Lang: texts.LangRO}
	effs := Next(sess, TextEvent("salut"), Options{})
	if len(effs) != 1 || effs[0].Kind != EffMenu {
		t.Fatalf("effects = %v", effectKinds(effs))
	}
}
