package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventboard/internal/model"
)

func TestStatusText(t *testing.T) {
	ready := "Ready"
	assert.Equal(t, "Ready", model.Event{Status: &ready}.StatusText())
	assert.Equal(t, "", model.Event{}.StatusText())
}
