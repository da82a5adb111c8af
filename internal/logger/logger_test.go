package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{env: "prod", want: zapcore.InfoLevel},
		{env: "local", want: zapcore.DebugLevel},
		{env: "test", level: "warn", want: zapcore.WarnLevel},
		{env: "prod", level: "error", want: zapcore.ErrorLevel},
		{env: "staging", wantErr: true},
		{env: "local", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.want) {
				t.Errorf("level %s should be enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
				t.Errorf("level %s should be disabled", tt.want-1)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("from request")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
}

func TestFromContextOr(t *testing.T) {
	fbCore, fbLogs := observer.New(zapcore.InfoLevel)
	fallback := zap.New(fbCore)

	FromContextOr(context.Background(), fallback).Info("component")
	if fbLogs.Len() != 1 {
		t.Fatalf("fallback should receive the entry, got %d", fbLogs.Len())
	}

	reqCore, reqLogs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(reqCore))
	FromContextOr(ctx, fallback).Info("request")
	if reqLogs.Len() != 1 || fbLogs.Len() != 1 {
		t.Errorf("request logger should win: req=%d fallback=%d", reqLogs.Len(), fbLogs.Len())
	}
}
