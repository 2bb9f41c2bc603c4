package toolerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpstream_FormatsStatusAndMessage(t *testing.T) {
	err := Upstream("Gmail", 401, "Invalid credentials")
	require.Equal(t, "Gmail API error: 401 Invalid credentials", err.Error())
	require.Equal(t, KindAuth, err.Kind)
}

func TestUpstream_ClassifiesServerErrorsAsUpstream(t *testing.T) {
	err := Upstream("GitHub", 503, "Service Unavailable")
	require.Equal(t, KindUpstream, err.Kind)
}

func TestAuthRemediation_PointsAtAuthRoute(t *testing.T) {
	err := AuthRemediation("github", errors.New("no_credentials"))
	require.Contains(t, err.Error(), "/auth/github")
	require.Equal(t, KindAuth, err.Kind)
}
