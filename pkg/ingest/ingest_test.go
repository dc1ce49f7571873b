package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/content/inmemory"
	"github.com/foliohq/folio/pkg/ingest"
)

func TestIngest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ingest Suite")
}

// recordingIndexer captures IndexDocument and Delete calls for assertions.
type recordingIndexer struct {
	indexed []string
	deleted []string
}

func (r *recordingIndexer) IndexDocument(collection content.Collection, doc *content.Document) error {
	r.indexed = append(r.indexed, string(collection)+"/"+doc.Slug)
	return nil
}

func (r *recordingIndexer) Delete(collection content.Collection, id string) error {
	r.deleted = append(r.deleted, string(collection)+"/"+id)
	return nil
}

var _ = Describe("Syncer", func() {
	var (
		ctx     context.Context
		tmpDir  string
		store   *inmemory.Store
		indexer *recordingIndexer
		syncer  *ingest.Syncer
	)

	writeFile := func(rel, body string) {
		path := filepath.Join(tmpDir, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		tmpDir, err = os.MkdirTemp("", "ingest-test-*")
		Expect(err).NotTo(HaveOccurred())

		store = inmemory.NewStore()
		indexer = &recordingIndexer{}
		syncer = ingest.NewSyncer(store, indexer, zap.NewNop())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("syncs posts and pages from the content tree", func() {
		writeFile("posts/first.md", "---\ntitle: First\npublished: true\n---\nHello.")
		writeFile("pages/about.md", "---\ntitle: About\npublished: true\n---\nAbout us.")

		result, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Synced).To(Equal(2))
		Expect(result.Failed).To(BeEmpty())

		post, err := store.GetBySlug(ctx, content.CollectionPosts, "first")
		Expect(err).NotTo(HaveOccurred())
		Expect(post.Title).To(Equal("First"))
		Expect(post.Published).To(BeTrue())
		Expect(post.Content).To(Equal("Hello."))

		_, err = store.GetBySlug(ctx, content.CollectionPages, "about")
		Expect(err).NotTo(HaveOccurred())
	})

	It("derives the slug from the filename when frontmatter omits it", func() {
		writeFile("posts/my-post.md", "---\ntitle: Untitled Slug\n---\nbody")

		_, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.GetBySlug(ctx, content.CollectionPosts, "my-post")
		Expect(err).NotTo(HaveOccurred())
	})

	It("prefers an explicit frontmatter slug", func() {
		writeFile("posts/file-name.md", "---\ntitle: T\nslug: custom-slug\n---\nbody")

		_, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.GetBySlug(ctx, content.CollectionPosts, "custom-slug")
		Expect(err).NotTo(HaveOccurred())
	})

	It("records files that fail to parse and keeps going", func() {
		writeFile("posts/bad.md", "no frontmatter here")
		writeFile("posts/good.md", "---\ntitle: Good\n---\nbody")

		result, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Synced).To(Equal(1))
		Expect(result.Failed).To(HaveLen(1))
		Expect(result.Failed[0]).To(ContainSubstring("bad.md"))
	})

	It("ignores non-markdown files", func() {
		writeFile("posts/notes.txt", "plain text")

		result, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Synced).To(Equal(0))
		Expect(result.Failed).To(BeEmpty())
	})

	It("tolerates a missing collection directory", func() {
		writeFile("posts/only.md", "---\ntitle: Only\n---\nbody")

		result, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Synced).To(Equal(1))
	})

	It("feeds synced documents to the indexer", func() {
		writeFile("posts/indexed.md", "---\ntitle: Indexed\npublished: true\n---\nbody")

		_, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(indexer.indexed).To(ContainElement("posts/indexed"))
	})

	It("upserts on re-sync instead of duplicating", func() {
		writeFile("posts/again.md", "---\ntitle: V1\n---\nbody one")
		_, err := syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())

		writeFile("posts/again.md", "---\ntitle: V2\n---\nbody two")
		_, err = syncer.SyncDir(ctx, tmpDir)
		Expect(err).NotTo(HaveOccurred())

		docs, err := store.List(ctx, content.CollectionPosts)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].Title).To(Equal("V2"))
	})

	Describe("orphan cleanup", func() {
		It("removes stored documents whose source file disappeared", func() {
			writeFile("posts/keep.md", "---\ntitle: Keep\n---\nbody")
			writeFile("posts/drop.md", "---\ntitle: Drop\n---\nbody")
			_, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.Remove(filepath.Join(tmpDir, "posts", "drop.md"))).To(Succeed())

			result, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Removed).To(Equal(1))

			_, err = store.GetBySlug(ctx, content.CollectionPosts, "drop")
			Expect(err).To(HaveOccurred())
			_, err = store.GetBySlug(ctx, content.CollectionPosts, "keep")
			Expect(err).NotTo(HaveOccurred())
			Expect(indexer.deleted).To(HaveLen(1))
		})

		It("keeps the stored document when its file merely fails to parse", func() {
			writeFile("posts/flaky.md", "---\ntitle: Flaky\n---\nbody")
			_, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			writeFile("posts/flaky.md", "no frontmatter here")

			result, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Removed).To(Equal(0))

			_, err = store.GetBySlug(ctx, content.CollectionPosts, "flaky")
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not prune a collection whose directory is missing", func() {
			writeFile("posts/solo.md", "---\ntitle: Solo\n---\nbody")
			_, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.RemoveAll(filepath.Join(tmpDir, "posts"))).To(Succeed())

			result, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Removed).To(Equal(0))

			_, err = store.GetBySlug(ctx, content.CollectionPosts, "solo")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("RemoveFile", func() {
		It("deletes the document backing a removed file", func() {
			writeFile("posts/gone.md", "---\ntitle: Gone\n---\nbody")
			_, err := syncer.SyncDir(ctx, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = syncer.RemoveFile(ctx, content.CollectionPosts, filepath.Join(tmpDir, "posts", "gone.md"))
			Expect(err).NotTo(HaveOccurred())

			_, err = store.GetBySlug(ctx, content.CollectionPosts, "gone")
			Expect(err).To(HaveOccurred())
			Expect(indexer.deleted).To(HaveLen(1))
		})

		It("is a no-op for unknown files", func() {
			err := syncer.RemoveFile(ctx, content.CollectionPosts, "/nowhere/never.md")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("SlugFromPath", func() {
		It("strips the directory and extension", func() {
			Expect(ingest.SlugFromPath("/a/b/posts/hello-world.md")).To(Equal("hello-world"))
		})
	})
})
