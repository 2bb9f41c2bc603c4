package pdftext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_RejectsNonPDFBytesWithWrappedError(t *testing.T) {
	_, err := Extract([]byte("not a pdf"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "pdftext:")
}

func TestExtract_RejectsEmptyInput(t *testing.T) {
	_, err := Extract(nil)
	require.Error(t, err)
}
