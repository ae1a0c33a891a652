//go:build integration

package containers

import (
	"context"
	"testing"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	tces "github.com/testcontainers/testcontainers-go/modules/elasticsearch"
)

// ElasticsearchContainer wraps a testcontainers Elasticsearch instance.
type ElasticsearchContainer struct {
	Container *tces.ElasticsearchContainer
	Client    *elasticsearch.Client
}

// NewElasticsearchContainer starts a single-node Elasticsearch container and
// returns a connected client.
func NewElasticsearchContainer(t *testing.T) *ElasticsearchContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tces.Run(ctx, "docker.elastic.co/elasticsearch/elasticsearch:8.17.1")
	if err != nil {
		t.Fatalf("failed to start elasticsearch container: %v", err)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{container.Settings.Address},
		Username:  "elastic",
		Password:  container.Settings.Password,
		CACert:    container.Settings.CACert,
	})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create elasticsearch client: %v", err)
	}

	ec := &ElasticsearchContainer{
		Container: container,
		Client:    client,
	}

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	return ec
}
