package main

import (
	"testing"

	"github.com/heartmarshall/wordbuddy/internal/app"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    app.Options
		wantErr bool
	}{
		{name: "no args", args: nil, want: app.Options{Mode: app.ModeREPL}},
		{name: "repl", args: []string{"repl"}, want: app.Options{Mode: app.ModeREPL}},
		{name: "serve", args: []string{"serve"}, want: app.Options{Mode: app.ModeServe}},
		{name: "migrate", args: []string{"migrate"}, want: app.Options{Mode: app.ModeMigrate}},
		{name: "lookup", args: []string{"lookup", "hello"}, want: app.Options{Mode: app.ModeLookup, Word: "hello"}},
		{name: "history flags", args: []string{"history", "-limit", "5", "-word", "hello"}, want: app.Options{Mode: app.ModeHistory, HistoryLimit: 5, HistoryWord: "hello"}},
		{name: "lookup without word", args: []string{"lookup"}, wantErr: true},
		{name: "lookup two words", args: []string{"lookup", "ice", "cream"}, wantErr: true},
		{name: "serve with args", args: []string{"serve", "now"}, wantErr: true},
		{name: "history bad limit", args: []string{"history", "-limit", "many"}, wantErr: true},
		{name: "unknown", args: []string{"dance"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
