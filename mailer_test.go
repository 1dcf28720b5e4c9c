package linksum_test

import (
	"testing"

	"github.com/fwojciec/linksum"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSubject(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Analysis: Go 1.25", linksum.DefaultSubject(&linksum.Analysis{Title: "Go 1.25", URL: "https://go.dev"}))
	assert.Equal(t, "Analysis: https://go.dev", linksum.DefaultSubject(&linksum.Analysis{URL: "https://go.dev"}))
}
