package embeddings

import (
	"strings"
	"testing"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEmbeddings(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Embeddings Suite")
}

var _ = Describe("TruncateInput", func() {
	It("passes short input through unchanged", func() {
		Expect(TruncateInput("hello")).To(Equal("hello"))
	})

	It("bounds long input to the input ceiling", func() {
		out := TruncateInput(strings.Repeat("a", MaxInputChars+100))
		Expect(len(out)).To(Equal(MaxInputChars))
	})

	It("cuts multi-byte input on rune boundaries", func() {
		out := TruncateInput(strings.Repeat("世", MaxInputChars+1))
		Expect(utf8.ValidString(out)).To(BeTrue())
		Expect(utf8.RuneCountInString(out)).To(Equal(MaxInputChars))
	})
})
