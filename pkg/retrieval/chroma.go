package retrieval

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
)

const (
	collectionName = "snippets"
	// Embedding models have token limits.
	maxDocumentLength = 10000
)

type ChromaConfig struct {
	APIKey       string
	Tenant       string
	Database     string
	GeminiAPIKey string
}

// ChromaStore keeps documents in Chroma Cloud with Gemini embeddings.
type ChromaStore struct {
	collection chroma.Collection
}

func NewChromaStore(ctx context.Context, cfg ChromaConfig) (*ChromaStore, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required")
	}

	// The embedding function reads its key from the environment.
	if cfg.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	}

	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	var client chroma.Client
	switch {
	case cfg.Database != "" && cfg.Tenant != "":
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithDatabaseAndTenant(cfg.Database, cfg.Tenant),
		)
	case cfg.Tenant != "":
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithTenant(cfg.Tenant),
		)
	default:
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(ctx, collectionName,
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &ChromaStore{collection: collection}, nil
}

// Add upserts by document ID so re-indexing a snippet never duplicates it.
func (s *ChromaStore) Add(ctx context.Context, doc Document) error {
	text := truncate(doc.Text, maxDocumentLength)

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"user_id": doc.UserID,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	err = s.collection.Upsert(ctx,
		chroma.WithIDs(chroma.DocumentID(doc.ID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (s *ChromaStore) Query(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		k = DefaultK
	}

	results, err := s.collection.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []Document{}, nil
	}

	idGroups := results.GetIDGroups()
	docGroups := results.GetDocumentsGroups()
	if len(idGroups) == 0 {
		return []Document{}, nil
	}

	out := make([]Document, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		doc := Document{ID: string(id)}
		if len(docGroups) > 0 && i < len(docGroups[0]) && docGroups[0][i] != nil {
			doc.Text = docGroups[0][i].ContentString()
		}
		out = append(out, doc)
	}
	return out, nil
}

// truncate cuts text to at most n bytes without splitting a rune.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
