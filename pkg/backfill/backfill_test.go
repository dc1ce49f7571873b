package backfill_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/backfill"
	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/content/inmemory"
	testutils "github.com/foliohq/folio/pkg/utils/test"
	"github.com/foliohq/folio/pkg/vector"
)

func TestBackfill(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backfill Suite")
}

var _ = Describe("Backfiller", func() {
	var (
		ctx       context.Context
		store     *inmemory.Store
		embedder  *testutils.MockEmbedder
		postIndex *testutils.MockVectorDriver
		pageIndex *testutils.MockVectorDriver
		publisher *testutils.MockPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewStore()
		embedder = testutils.NewMockEmbedder()
		postIndex = testutils.NewMockVectorDriver()
		pageIndex = testutils.NewMockVectorDriver()
		publisher = testutils.NewMockPublisher()
	})

	newBackfiller := func() *backfill.Backfiller {
		return backfill.NewBackfiller(store, embedder, postIndex, pageIndex, publisher, zap.NewNop(), backfill.Options{})
	}

	seedPost := func(slug, title, body string) *content.Document {
		doc, err := store.Put(ctx, content.CollectionPosts, &content.Document{
			Slug:      slug,
			Title:     title,
			Content:   body,
			Published: true,
		})
		Expect(err).NotTo(HaveOccurred())
		return doc
	}

	It("embeds every document without an embedding", func() {
		seedPost("one", "One", "first post")
		seedPost("two", "Two", "second post")

		result, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Skipped).To(BeFalse())
		Expect(result.Posts.Processed).To(Equal(2))
		Expect(result.Posts.Failed).To(BeEmpty())

		docs, err := store.List(ctx, content.CollectionPosts)
		Expect(err).NotTo(HaveOccurred())
		for _, doc := range docs {
			Expect(doc.Embedding).NotTo(BeEmpty())
		}
	})

	It("reuses an embedding the vector index already holds", func() {
		doc := seedPost("half-done", "Half Done", "body")
		postIndex.Documents = append(postIndex.Documents, vector.Document{
			ID:        doc.ID,
			Slug:      doc.Slug,
			Published: true,
			Embedding: []float32{0.5, 0.6},
		})

		result, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Posts.Processed).To(Equal(1))
		Expect(embedder.Calls).To(Equal(0))

		stored, err := store.GetByID(ctx, content.CollectionPosts, doc.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Embedding).To(Equal([]float32{0.5, 0.6}))
	})

	It("adds embedded documents to the vector index", func() {
		doc := seedPost("indexed", "Indexed", "body")

		_, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(postIndex.Documents).To(HaveLen(1))
		Expect(postIndex.Documents[0].ID).To(Equal(doc.ID))
		Expect(postIndex.Documents[0].Slug).To(Equal("indexed"))
		Expect(postIndex.Documents[0].Published).To(BeTrue())
	})

	It("embeds the title and content together", func() {
		seedPost("combined", "My Title", "my body")

		embedder.Embeddings["My Title\n\nmy body"] = []float32{0.9, 0.9, 0.9}

		_, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		doc, err := store.GetBySlug(ctx, content.CollectionPosts, "combined")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Embedding).To(Equal([]float32{0.9, 0.9, 0.9}))
	})

	It("processes pages as well as posts", func() {
		_, err := store.Put(ctx, content.CollectionPages, &content.Document{
			Slug:      "about",
			Title:     "About",
			Content:   "about page",
			Published: true,
		})
		Expect(err).NotTo(HaveOccurred())

		result, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Pages.Processed).To(Equal(1))
		Expect(pageIndex.Documents).To(HaveLen(1))
	})

	It("continues past a failing item and reports the rest as processed", func() {
		for i := 1; i <= 10; i++ {
			seedPost(fmt.Sprintf("post-%d", i), fmt.Sprintf("Post %d", i), fmt.Sprintf("body %d", i))
		}
		embedder.FailOn = "Post 3\n\nbody 3"

		result, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Posts.Processed).To(Equal(9))
		Expect(result.Posts.Failed).To(Equal([]string{"post-3"}))
	})

	It("processes nothing on a second run over a fully embedded collection", func() {
		seedPost("once", "Once", "body")

		b := newBackfiller()
		first, err := b.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Posts.Processed).To(Equal(1))

		second, err := b.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Posts.Processed).To(Equal(0))
		Expect(second.Pages.Processed).To(Equal(0))
	})

	It("skips the run when no embedder is configured", func() {
		seedPost("pending", "Pending", "body")

		b := backfill.NewBackfiller(store, nil, postIndex, pageIndex, publisher, zap.NewNop(), backfill.Options{})
		result, err := b.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Skipped).To(BeTrue())
		Expect(result.Processed()).To(Equal(0))

		doc, err := store.GetBySlug(ctx, content.CollectionPosts, "pending")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Embedding).To(BeEmpty())
	})

	It("publishes one event per embedded document", func() {
		seedPost("evt-1", "One", "body")
		seedPost("evt-2", "Two", "body")

		_, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(publisher.Events).To(HaveLen(2))
		Expect(publisher.Events[0].Collection).To(Equal("posts"))
		Expect(publisher.Events[0].Dimensions).To(Equal(3))
	})

	It("still counts an item as processed when event publishing fails", func() {
		seedPost("lossy", "Lossy", "body")
		publisher.FailPublish = true

		result, err := newBackfiller().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Posts.Processed).To(Equal(1))
		Expect(result.Posts.Failed).To(BeEmpty())
	})

	Describe("Result", func() {
		It("summarizes a skipped run", func() {
			r := &backfill.Result{Skipped: true}
			Expect(r.Summary()).To(ContainSubstring("skipped"))
		})

		It("summarizes totals across collections", func() {
			r := &backfill.Result{
				Posts: backfill.CollectionResult{Processed: 2, Failed: []string{"a"}},
				Pages: backfill.CollectionResult{Processed: 1},
			}
			Expect(r.Processed()).To(Equal(3))
			Expect(r.Failed()).To(Equal(1))
			Expect(r.Summary()).To(ContainSubstring("3 embedded"))
			Expect(r.Summary()).To(ContainSubstring("1 failed"))
		})
	})
})
