package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionStatus(t *testing.T) {
	for _, st := range SubmissionStatuses {
		got, ok := ParseSubmissionStatus(string(st))
		require.True(t, ok)
		assert.Equal(t, st, got)
	}

	_, ok := ParseSubmissionStatus("archived")
	assert.False(t, ok)
	_, ok = ParseSubmissionStatus("")
	assert.False(t, ok)
}

func TestSubmissionStatusFiled(t *testing.T) {
	assert.False(t, SubmissionPending.Filed())
	assert.True(t, SubmissionPendingApproval.Filed())
	assert.True(t, SubmissionApproved.Filed())
	assert.True(t, SubmissionRejected.Filed())
}

func TestSubmissionStatusTerminal(t *testing.T) {
	assert.False(t, SubmissionPending.Terminal())
	assert.False(t, SubmissionPendingApproval.Terminal())
	assert.True(t, SubmissionApproved.Terminal())
	assert.True(t, SubmissionRejected.Terminal())
}

func TestSubmissionStatusToStandardStatus(t *testing.T) {
	assert.Equal(t, StandardNotSubmitted, SubmissionPending.StandardStatus())
	assert.Equal(t, StandardPendingApproval, SubmissionPendingApproval.StandardStatus())
	assert.Equal(t, StandardApproved, SubmissionApproved.StandardStatus())
	assert.Equal(t, StandardRejected, SubmissionRejected.StandardStatus())
}

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{Type: TypeText, Title: "Q1 inspection report"}
	require.NoError(t, valid.Validate())

	t.Run("empty title", func(t *testing.T) {
		sub := Submission{Type: TypePDF, Title: "   "}
		err := sub.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.True(t, errors.Is(err, ErrEmptyTitle))
	})

	t.Run("unknown type", func(t *testing.T) {
		sub := Submission{Type: "spreadsheet", Title: "Q1 report"}
		err := sub.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.True(t, errors.Is(err, ErrInvalidType))
	})
}
