// Package mock provides a test double for ai.Embedder.
//
// The default MockEmbedder is a hashing bag-of-words model: deterministic,
// dependency free, and good enough that a prompt mentioning "kafka" lands
// closer to a resume mentioning kafka than to one that does not.
//
//	emb := mock.NewMockEmbedder(64)
//	emb.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("provider down")
//	}
package mock
