package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clustersDoc struct {
	Clusters []struct {
		Canonical  string `json:"canonical"`
		Members    []int  `json:"members"`
		Confidence string `json:"confidence"`
	} `json:"clusters"`
}

func TestDecodeLenientStrict(t *testing.T) {
	var doc clustersDoc
	err := DecodeLenient(`{"clusters":[{"canonical":"Acme","members":[0,1],"confidence":"high"}]}`, &doc)
	require.NoError(t, err)
	require.Len(t, doc.Clusters, 1)
	assert.Equal(t, "Acme", doc.Clusters[0].Canonical)
	assert.Equal(t, []int{0, 1}, doc.Clusters[0].Members)
}

func TestDecodeLenientMarkdownFence(t *testing.T) {
	var doc clustersDoc
	text := "```json\n{\"clusters\":[{\"canonical\":\"Acme\",\"members\":[0],\"confidence\":\"high\"}]}\n```"
	require.NoError(t, DecodeLenient(text, &doc))
	require.Len(t, doc.Clusters, 1)
}

func TestDecodeLenientTruncatedResponse(t *testing.T) {
	// Truncated mid-stream: the complete cluster objects are still
	// recoverable.
	text := `{"clusters":[{"canonical":"Acme","members":[0,1],"confidence":"high"},{"canonical":"Zen`
	var doc clustersDoc
	require.NoError(t, DecodeLenient(text, &doc))
	require.Len(t, doc.Clusters, 1)
	assert.Equal(t, "Acme", doc.Clusters[0].Canonical)
}

func TestDecodeLenientTrailingComma(t *testing.T) {
	var doc clustersDoc
	text := `{"clusters":[{"canonical":"Acme","members":[0,],"confidence":"high"},]}`
	require.NoError(t, DecodeLenient(text, &doc))
	require.Len(t, doc.Clusters, 1)
}

func TestDecodeLenientUnbalancedBraces(t *testing.T) {
	var doc clustersDoc
	text := `{"clusters":[{"canonical":"Acme","members":[0],"confidence":"high"}`
	require.NoError(t, DecodeLenient(text, &doc))
	require.Len(t, doc.Clusters, 1)
}

func TestDecodeLenientProseWrapped(t *testing.T) {
	var doc clustersDoc
	text := `Here is the result you asked for:
{"clusters":[{"canonical":"Acme","members":[0],"confidence":"high"}]}
Hope this helps!`
	require.NoError(t, DecodeLenient(text, &doc))
	require.Len(t, doc.Clusters, 1)
}

func TestDecodeLenientGarbage(t *testing.T) {
	var doc clustersDoc
	err := DecodeLenient("total nonsense, no json here", &doc)
	assert.ErrorIs(t, err, ErrUnparsable)
}
