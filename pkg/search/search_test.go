package search_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/content/inmemory"
	"github.com/foliohq/folio/pkg/search"
	testutils "github.com/foliohq/folio/pkg/utils/test"
	"github.com/foliohq/folio/pkg/vector"
)

func TestSearch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Search Suite")
}

var _ = Describe("Searcher", func() {
	var (
		ctx       context.Context
		store     *inmemory.Store
		embedder  *testutils.MockEmbedder
		postIndex *testutils.MockVectorDriver
		pageIndex *testutils.MockVectorDriver
		searcher  *search.Searcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewStore()
		embedder = testutils.NewMockEmbedder()
		postIndex = testutils.NewMockVectorDriver()
		pageIndex = testutils.NewMockVectorDriver()
		searcher = search.NewSearcher(embedder, postIndex, pageIndex, store, zap.NewNop())
	})

	seed := func(collection content.Collection, slug string, published, unlisted bool) *content.Document {
		doc, err := store.Put(ctx, collection, &content.Document{
			Slug:      slug,
			Title:     "Title " + slug,
			Content:   "Content for " + slug,
			Published: published,
			Unlisted:  unlisted,
		})
		Expect(err).NotTo(HaveOccurred())
		return doc
	}

	candidate := func(doc *content.Document, score float32) vector.QueryResult {
		return vector.QueryResult{
			Document: vector.Document{ID: doc.ID, Slug: doc.Slug, Published: doc.Published},
			Score:    score,
		}
	}

	Describe("Available", func() {
		It("is true with an embedder and both indexes", func() {
			Expect(searcher.Available()).To(BeTrue())
		})

		It("is false without an embedder", func() {
			s := search.NewSearcher(nil, postIndex, pageIndex, store, zap.NewNop())
			Expect(s.Available()).To(BeFalse())
		})
	})

	Describe("Semantic", func() {
		It("returns hydrated results ordered by score descending", func() {
			low := seed(content.CollectionPosts, "low", true, false)
			high := seed(content.CollectionPosts, "high", true, false)
			postIndex.Results = []vector.QueryResult{
				candidate(low, 0.3),
				candidate(high, 0.9),
			}

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Slug).To(Equal("high"))
			Expect(results[1].Slug).To(Equal("low"))
			Expect(results[0].Kind).To(Equal(search.KindPost))
		})

		It("returns empty results for a blank query without calling the provider", func() {
			results, err := searcher.Semantic(ctx, "   ")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
			Expect(embedder.Calls).To(BeZero())
		})

		It("returns empty results when no embedder is configured", func() {
			s := search.NewSearcher(nil, postIndex, pageIndex, store, zap.NewNop())

			results, err := s.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("propagates embedding failures", func() {
			embedder.FailOn = "bad query"

			_, err := searcher.Semantic(ctx, "bad query")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to embed query"))
		})

		It("excludes unpublished and unlisted documents", func() {
			visible := seed(content.CollectionPosts, "visible", true, false)
			draft := seed(content.CollectionPosts, "draft", false, false)
			hidden := seed(content.CollectionPosts, "hidden", true, true)
			postIndex.Results = []vector.QueryResult{
				candidate(visible, 0.9),
				candidate(draft, 0.8),
				candidate(hidden, 0.7),
			}

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Slug).To(Equal("visible"))
		})

		It("drops candidates whose document has vanished from the store", func() {
			kept := seed(content.CollectionPosts, "kept", true, false)
			gone := seed(content.CollectionPosts, "gone", true, false)
			postIndex.Results = []vector.QueryResult{
				candidate(kept, 0.9),
				candidate(gone, 0.8),
			}
			Expect(store.Delete(ctx, content.CollectionPosts, gone.ID)).To(Succeed())

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Slug).To(Equal("kept"))
		})

		It("merges posts and pages and keeps posts first on equal scores", func() {
			post := seed(content.CollectionPosts, "tied-post", true, false)
			page := seed(content.CollectionPages, "tied-page", true, false)
			postIndex.Results = []vector.QueryResult{candidate(post, 0.5)}
			pageIndex.Results = []vector.QueryResult{candidate(page, 0.5)}

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Kind).To(Equal(search.KindPost))
			Expect(results[1].Kind).To(Equal(search.KindPage))
		})

		It("caps the merged list at 15 results", func() {
			var postResults, pageResults []vector.QueryResult
			for i := 0; i < 10; i++ {
				post := seed(content.CollectionPosts, fmt.Sprintf("post-%d", i), true, false)
				page := seed(content.CollectionPages, fmt.Sprintf("page-%d", i), true, false)
				postResults = append(postResults, candidate(post, float32(i)/10))
				pageResults = append(pageResults, candidate(page, float32(i)/20))
			}
			postIndex.Results = postResults
			pageIndex.Results = pageResults

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(15))

			for i := 1; i < len(results); i++ {
				Expect(results[i].Score).To(BeNumerically("<=", results[i-1].Score))
			}
		})

		It("attaches a bounded snippet to each result", func() {
			doc, err := store.Put(ctx, content.CollectionPosts, &content.Document{
				Slug:      "long",
				Title:     "Long",
				Content:   strings.Repeat("lorem ipsum ", 100),
				Published: true,
			})
			Expect(err).NotTo(HaveOccurred())
			postIndex.Results = []vector.QueryResult{candidate(doc, 0.9)}

			results, err := searcher.Semantic(ctx, "query")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(len(results[0].Snippet)).To(BeNumerically("<=", 123))
			Expect(results[0].Snippet).To(HaveSuffix("..."))
		})
	})
})
