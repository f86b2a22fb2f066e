package native

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/interval"
)

func touch(path string) {
	GinkgoHelper()
	Expect(os.WriteFile(path, []byte("not a library"), 0o644)).To(Succeed())
}

var _ = Describe("LibraryPath", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("resolves the lib-prefixed file", func() {
		want := filepath.Join(dir, "libeuler"+LibraryExt())
		touch(want)

		Expect(LibraryPath(dir, "euler")).To(Equal(want))
	})

	It("falls back to a bare .so name", func() {
		want := filepath.Join(dir, "euler.so")
		touch(want)

		Expect(LibraryPath(dir, "euler")).To(Equal(want))
	})

	It("prefers the prefixed file when both exist", func() {
		want := filepath.Join(dir, "libeuler"+LibraryExt())
		touch(want)
		touch(filepath.Join(dir, "euler.so"))

		Expect(LibraryPath(dir, "euler")).To(Equal(want))
	})

	It("ignores directories", func() {
		Expect(os.Mkdir(filepath.Join(dir, "libeuler"+LibraryExt()), 0o755)).To(Succeed())

		_, err := LibraryPath(dir, "euler")
		Expect(err).To(MatchError(ErrModuleNotFound))
	})

	It("reports the preferred path when nothing exists", func() {
		_, err := LibraryPath(dir, "missing")
		Expect(err).To(MatchError(ErrModuleNotFound))
		Expect(err.Error()).To(ContainSubstring("libmissing"))
	})

	It("rejects an empty name", func() {
		_, err := LibraryPath(dir, "")
		Expect(err).To(MatchError(ErrModuleNotFound))
	})
})

var _ = DescribeTable("Suffix",
	func(suffix func() (string, error), want string) {
		got, err := suffix()
		if want == "" {
			Expect(err).To(MatchError(ErrUnsupportedPair))
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("float32 scalars", Suffix[float32, dynamo.F32], "f32_f32"),
	Entry("float64 scalars", Suffix[float64, dynamo.F64], "f64_f64"),
	Entry("raw float64", Suffix[float64, float64], "f64_f64"),
	Entry("float64 time, float64 intervals", Suffix[float64, interval.Interval[float64]], "f64_If64"),
	Entry("float64 time, float32 intervals", Suffix[float64, interval.Interval[float32]], "f64_If32"),
	Entry("float32 time, float64 intervals", Suffix[float32, interval.Interval[float64]], "f32_If64"),
	Entry("float32 time, float32 intervals", Suffix[float32, interval.Interval[float32]], "f32_If32"),
	Entry("mixed scalar widths", Suffix[float64, dynamo.F32], ""),
	Entry("mixed scalar widths reversed", Suffix[float32, dynamo.F64], ""),
	Entry("integers", Suffix[float64, int], ""),
)

var _ = Describe("Open", func() {
	It("rejects a file that is not a shared library", func() {
		if !libraryLoading {
			Skip("dynamic loading unavailable")
		}
		path := filepath.Join(GinkgoT().TempDir(), "libjunk"+LibraryExt())
		touch(path)

		_, err := Open(path)
		Expect(err).To(MatchError(ErrModuleLoad))
		Expect(err.Error()).To(ContainSubstring(path))
	})
})

var _ = Describe("OpenExternal", func() {
	It("checks the type pair before touching the filesystem", func() {
		_, err := OpenExternal[float64, dynamo.F32]("/nonexistent", "euler")
		Expect(err).To(MatchError(ErrUnsupportedPair))
	})

	It("reports a missing module", func() {
		_, err := OpenExternal[float64, dynamo.F64](GinkgoT().TempDir(), "euler")
		Expect(err).To(MatchError(ErrModuleNotFound))
	})
})
