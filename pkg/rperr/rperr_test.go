package rperr_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-rpwrap/pkg/debugvalue"
	"github.com/goliatone/go-rpwrap/pkg/rperr"
)

func TestStatusCode_Table(t *testing.T) {
	codes := rperr.Codes()
	if len(codes) != 25 {
		t.Fatalf("expected 25 codes, got %d", len(codes))
	}
	if codes[0] != rperr.OK || codes[len(codes)-1] != rperr.NOTS {
		t.Fatalf("unexpected ordering: %v", codes)
	}
	if got := rperr.EOOR.Message(); got != "Value Out Of Range" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := rperr.BTS.Constant(); got != "RP_BTS" {
		t.Fatalf("unexpected constant %q", got)
	}
	if got := rperr.StatusCode(99).Message(); got != "Unknown error 99" {
		t.Fatalf("unexpected unknown message %q", got)
	}
}

func TestCheck_OK(t *testing.T) {
	if err := rperr.Check("rp_AcqStart", rperr.OK); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestError_SanitizesArguments(t *testing.T) {
	err := rperr.Check("rp_AcqGetDataRaw", rperr.BTS, 1, "chA", []int16{1, 2, 3})

	var rpErr *rperr.Error
	if !errors.As(err, &rpErr) {
		t.Fatalf("expected *rperr.Error, got %T", err)
	}
	if rpErr.Arguments[2] != (debugvalue.Marker{Type: "[]int16"}) {
		t.Fatalf("expected buffer marker, got %v", rpErr.Arguments[2])
	}

	want := "While calling rp_AcqGetDataRaw with arguments (1, 'chA', <class '[]int16'>): Buffer too small (14)"
	if got := err.Error(); got != want {
		t.Fatalf("unexpected message\nwant: %q\n got: %q", want, got)
	}
	if !errors.Is(err, &rperr.Error{Code: rperr.BTS}) {
		t.Fatalf("expected errors.Is to match on status code")
	}
}

func TestError_SingleArgumentTuple(t *testing.T) {
	err := rperr.New("rp_GenOutEnable", rperr.EPN, true)
	want := "While calling rp_GenOutEnable with arguments (True,): Invalid Pin number (10)"
	if got := err.Error(); got != want {
		t.Fatalf("unexpected message\nwant: %q\n got: %q", want, got)
	}
}

type pinName string

type enabled bool

func TestError_FormatsNamedKinds(t *testing.T) {
	err := rperr.New("rp_DpinSetState", rperr.EPN, pinName("DIO0_P"), enabled(false), 3.5, true)
	want := "While calling rp_DpinSetState with arguments ('DIO0_P', False, 3.5, True): Invalid Pin number (10)"
	if got := err.Error(); got != want {
		t.Fatalf("unexpected message\nwant: %q\n got: %q", want, got)
	}
}
