package validator_test

import (
	"errors"
	"testing"

	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/validator"
)

type sample struct {
	Topic      string                `validate:"notblank"`
	Difficulty portal.Difficulty     `validate:"difficulty"`
	Type       portal.SimulationType `validate:"simtype"`
	Mix        portal.SourceMix      `validate:"sourcemix"`
	PIN        string                `validate:"pin"`
}

func TestCustomRules(t *testing.T) {
	v := validator.New()
	ok := sample{Topic: "Frações", Difficulty: portal.DifficultyEasy, Type: portal.SimulationTraining, Mix: portal.SourceMixMixed, PIN: "1234"}
	if err := v.Struct(ok, "bad"); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	bad := sample{Topic: "   ", Difficulty: "Impossível", Type: "Prova", Mix: "Livro", PIN: "12"}
	err := v.Struct(bad, "Dados inválidos.")
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if verr.Message != "Dados inválidos." {
		t.Fatalf("message = %q", verr.Message)
	}
	for _, f := range []string{"Topic", "Difficulty", "Type", "Mix", "PIN"} {
		if !verr.Has(f) {
			t.Errorf("expected %s to fail, fields = %+v", f, verr.Fields)
		}
	}
}
