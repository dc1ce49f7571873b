package vector_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	testutils "github.com/foliohq/folio/pkg/utils/test"
	"github.com/foliohq/folio/pkg/vector"
)

func TestVector(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Vector Suite")
}

var _ = Describe("GetOne", func() {
	var (
		ctx    context.Context
		driver *testutils.MockVectorDriver
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = testutils.NewMockVectorDriver()
	})

	It("returns the document matching the ID", func() {
		driver.Documents = []vector.Document{
			{ID: "a", Slug: "first"},
			{ID: "b", Slug: "second"},
		}

		doc, err := vector.GetOne(ctx, driver, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Slug).To(Equal("second"))
	})

	It("returns ErrNotFound for an absent ID", func() {
		_, err := vector.GetOne(ctx, driver, "missing")
		Expect(errors.Is(err, vector.ErrNotFound)).To(BeTrue())
	})
})
