package kafka

import (
	"context"
	"errors"
	"testing"
)

type job struct {
	ID    string `json:"id"`
	Theme string `json:"theme"`
}

func TestTypedHandlerMarksMalformedMessages(t *testing.T) {
	h := &TypedMessageHandler[job]{
		Process:    func(ctx context.Context, msg *job) error { t.Fatal("should not process"); return nil },
		AlwaysMark: true,
	}

	mark, err := h.HandleMessage(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("malformed message should not error: %v", err)
	}
	if !mark {
		t.Fatal("expected malformed message to be marked so it is not redelivered")
	}
}

func TestTypedHandlerSkipsInvalidMessages(t *testing.T) {
	h := &TypedMessageHandler[job]{
		Validate:   func(msg *job) bool { return msg.ID != "" },
		Process:    func(ctx context.Context, msg *job) error { t.Fatal("should not process"); return nil },
		AlwaysMark: true,
	}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"theme":"aries"}`))
	if err != nil || !mark {
		t.Fatalf("expected invalid message marked without error, got mark=%v err=%v", mark, err)
	}
}

func TestTypedHandlerRetriesOnProcessError(t *testing.T) {
	boom := errors.New("render failed")
	h := &TypedMessageHandler[job]{
		Process:    func(ctx context.Context, msg *job) error { return boom },
		AlwaysMark: true,
	}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"id":"1"}`))
	if !errors.Is(err, boom) {
		t.Fatalf("expected process error back, got %v", err)
	}
	if mark {
		t.Fatal("failed message must stay unmarked for redelivery")
	}
}

func TestTypedHandlerMarksOnSuccess(t *testing.T) {
	var got job
	h := &TypedMessageHandler[job]{
		Process: func(ctx context.Context, msg *job) error {
			got = *msg
			return nil
		},
	}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"id":"7","theme":"leo"}`))
	if err != nil || !mark {
		t.Fatalf("expected success to mark, got mark=%v err=%v", mark, err)
	}
	if got.ID != "7" || got.Theme != "leo" {
		t.Fatalf("unexpected decoded job: %+v", got)
	}
}

func TestGetBrokersSplitsList(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "broker-a:9092,broker-b:9092")
	brokers := GetBrokers()
	if len(brokers) != 2 || brokers[0] != "broker-a:9092" || brokers[1] != "broker-b:9092" {
		t.Fatalf("unexpected brokers: %v", brokers)
	}
}
