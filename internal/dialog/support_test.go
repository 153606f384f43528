package dialog

import (
	"testing"

	"github.com/cadolab/giftbot/internal/texts"
)

func TestSupportForwardsMessage(t *testing.T) {
	sess := &Session{Lang: texts.LangRO}
	effs := StartSupport(sess)
	if sess.State != SupportAwaitMessage {
		t.Fatalf("state = %q", sess.State)
	}
	if key := firstPromptKey(t, effs); key != "support_intro" {
		t.Fatalf("prompt = %q", key)
	}

	effs = Next(sess, TextEvent("unde este comanda mea?"), Options{})
	if sess.InFlow() {
		t.Fatal("still in flow after support message")
	}
	if effs[0].Kind != EffForward || effs[0].Text != "unde este comanda mea?" {
		t.Fatalf("forward effect = %+v", effs[0])
	}
	if key := firstPromptKey(t, effs); key != "support_sent" {
		t.Fatalf("prompt = %q", key)
	}
}

func TestSupportIgnoresButtons(t *testing.T) {
	sess := &Session{Lang: texts.LangRO}
	StartSupport(sess)
	effs := Next(sess, ChoiceEvent("confirm"), Options{})
	if sess.State != SupportAwaitMessage {
		t.Fatalf("state = %q", sess.State)
	}
	if key := firstPromptKey(t, effs); key != "support_intro" {
		t.Fatalf("prompt = %q", key)
	}
}
