package calais

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	appleURI   = "http://d.opencalais.com/comphash-1/apple"
	jobsURI    = "http://d.opencalais.com/pershash-1/jobs"
	foundedURI = "http://d.opencalais.com/genericHasher-1/founded"
	topicURI   = "http://d.opencalais.com/dochash-1/abc/cat/1"
)

const sampleResponse = `{
  "doc": {
    "info": {
      "docId": "http://d.opencalais.com/dochash-1/abc",
      "externalID": "ext-1",
      "document": "Apple Inc. was founded by Steve Jobs."
    },
    "meta": {
      "language": "English",
      "contentType": "TEXT/RAW"
    }
  },
  "http://d.opencalais.com/comphash-1/apple": {
    "_typeGroup": "entities",
    "_type": "Company",
    "name": "Apple Inc.",
    "relevance": 0.857,
    "instances": [
      {"exact": "Apple Inc.", "offset": 0, "length": 10}
    ]
  },
  "http://d.opencalais.com/pershash-1/jobs": {
    "_typeGroup": "entities",
    "_type": "Person",
    "name": "Steve Jobs",
    "relevance": 0.714
  },
  "http://d.opencalais.com/genericHasher-1/founded": {
    "_typeGroup": "relations",
    "_type": "CompanyFounded",
    "company": "http://d.opencalais.com/comphash-1/apple",
    "founder": "http://d.opencalais.com/pershash-1/jobs"
  },
  "http://d.opencalais.com/dochash-1/abc/cat/1": {
    "_typeGroup": "topics",
    "category": "http://d.opencalais.com/cat/Calais/BusinessFinance",
    "categoryName": "Business_Finance",
    "score": 0.9
  }
}`

func decodeFixture(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}
