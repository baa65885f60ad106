package bot

import (
	"testing"

	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/source"
)

type fakeTriggerer struct {
	triggered []string
}

func (f *fakeTriggerer) Trigger(feedID string) {
	f.triggered = append(f.triggered, feedID)
}

func TestHandleCommands(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"!hknews", []string{source.FeedRegional}},
		{"!worldnews", []string{source.FeedGlobal}},
		{"!hknews extra", nil},
		{"hello", nil},
		{"", nil},
		{"!HKNEWS", nil}, // commands are exact-match
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			trig := &fakeTriggerer{}
			b := &Bot{triggerer: trig, log: logger.NopLogger{}}

			b.handle(tt.text)

			if len(trig.triggered) != len(tt.want) {
				t.Fatalf("triggered %v, want %v", trig.triggered, tt.want)
			}
			for i := range tt.want {
				if trig.triggered[i] != tt.want[i] {
					t.Errorf("triggered %v, want %v", trig.triggered, tt.want)
				}
			}
		})
	}
}
