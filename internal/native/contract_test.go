package native

import (
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cauchy/internal/dynamo"
	"github.com/san-kum/cauchy/internal/integrators"
	"github.com/san-kum/cauchy/internal/interval"
)

// buildStub compiles testdata/stub.c into dir and returns the library path.
func buildStub(dir string) string {
	GinkgoHelper()
	return compile(dir, "stub", filepath.Join("testdata", "stub.c"))
}

// compile builds src into lib<name> inside dir.
func compile(dir, name, src string, flags ...string) string {
	GinkgoHelper()
	if !libraryLoading {
		Skip("dynamic loading unavailable")
	}
	cc, err := exec.LookPath("cc")
	if err != nil {
		Skip("no C compiler found")
	}

	out := filepath.Join(dir, "lib"+name+LibraryExt())
	args := append([]string{"-shared", "-fPIC", "-O1", "-ffp-contract=off"}, flags...)
	cmd := exec.Command(cc, append(args, "-o", out, src)...)
	output, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), string(output))
	return out
}

// counter binds one of the stub's int-returning call counters through a
// second load of the same library.
func counter(m *Module, name string) func() int32 {
	GinkgoHelper()
	sym, err := m.Lookup(name)
	Expect(err).NotTo(HaveOccurred())
	var fn func() int32
	registerFunc(&fn, sym)
	return fn
}

var _ = Describe("compiled module contract", func() {
	var (
		dir   string
		path  string
		probe *Module
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = buildStub(dir)

		var err error
		probe, err = Open(path)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(probe.Close)
	})

	It("prepares once and evaluates once per emitted step", func() {
		solver, err := OpenExternal[float64, dynamo.F64](dir, "stub")
		Expect(err).NotTo(HaveOccurred())
		defer solver.Close()
		Expect(solver.Path()).To(Equal(path))

		task := decayTask()
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(counter(probe, "stub_prepare_calls")()).To(Equal(int32(1)))
		Expect(counter(probe, "stub_eval_calls")()).To(BeZero())

		for i := 0; i < 5; i++ {
			_, _, err := solver.Next(task)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(counter(probe, "stub_prepare_calls")()).To(Equal(int32(1)))
		Expect(counter(probe, "stub_eval_calls")()).To(Equal(int32(5)))
		Expect(counter(probe, "stub_eval_before_prepare")()).To(BeZero())
	})

	It("matches the built-in Euler method step for step", func() {
		solver, err := OpenExternal[float64, dynamo.F64](dir, "stub")
		Expect(err).NotTo(HaveOccurred())
		defer solver.Close()

		task := decayTask()
		host := integrators.NewEuler[float64, dynamo.F64](0.1)
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(host.Prepare(task)).To(Succeed())

		for i := 0; i < 10; i++ {
			nt, ny, err := solver.Next(task)
			Expect(err).NotTo(HaveOccurred())
			ht, hy, err := host.Next(task)
			Expect(err).NotTo(HaveOccurred())

			Expect(nt).To(Equal(ht))
			Expect(ny).To(Equal(hy))
		}
	})

	It("reports a module that yields no state", func() {
		solver, err := OpenExternal[float32, dynamo.F32](dir, "stub")
		Expect(err).NotTo(HaveOccurred())
		defer solver.Close()

		task, err := dynamo.NewTask([]dynamo.Function[float32, dynamo.F32]{
			dynamo.F(func(_ float32, y [1]dynamo.F32) dynamo.F32 { return y[0] }),
		}, 0, []dynamo.F32{1})
		Expect(err).NotTo(HaveOccurred())

		Expect(solver.Prepare(task)).To(Succeed())
		_, _, err = solver.Next(task)
		Expect(err).To(MatchError(ErrNullResult))
	})

	It("names the missing symbol and unloads the module", func() {
		_, err := OpenExternal[float64, interval.Interval[float64]](dir, "stub")
		Expect(err).To(MatchError(ErrSymbolMissing))
		Expect(err.Error()).To(ContainSubstring("solver_prepare_f64_If64"))
		Expect(err.Error()).To(ContainSubstring(path))
	})
})

var _ = Describe("reference euler module", func() {
	var dir string

	BeforeEach(func() {
		if v := os.Getenv("CAUCHY_STEP"); v != "" && v != "0.1" {
			Skip("module step overridden by CAUCHY_STEP")
		}
		dir = GinkgoT().TempDir()
		root := filepath.Join("..", "..", "solvers")
		compile(dir, "euler", filepath.Join(root, "src", "euler.c"), "-I"+filepath.Join(root, "include"))
	})

	It("steps scalars like the built-in method", func() {
		solver, err := OpenExternal[float64, dynamo.F64](dir, "euler")
		Expect(err).NotTo(HaveOccurred())
		defer solver.Close()

		task := decayTask()
		host := integrators.NewEuler[float64, dynamo.F64](0.1)
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(host.Prepare(task)).To(Succeed())

		for i := 0; i < 10; i++ {
			nt, ny, err := solver.Next(task)
			Expect(err).NotTo(HaveOccurred())
			ht, hy, err := host.Next(task)
			Expect(err).NotTo(HaveOccurred())

			Expect(nt).To(BeNumerically("~", ht, 1e-12))
			Expect(float64(ny[0])).To(BeNumerically("~", float64(hy[0]), 1e-12))
		}
	})

	It("steps intervals like the built-in method", func() {
		type I = interval.Interval[float64]
		solver, err := OpenExternal[float64, I](dir, "euler")
		Expect(err).NotTo(HaveOccurred())
		defer solver.Close()

		task, err := dynamo.NewTask([]dynamo.Function[float64, I]{
			dynamo.F(func(_ float64, y [1]I) I { return y[0].Neg() }),
		}, 0, []I{interval.New(0.9, 1.1)})
		Expect(err).NotTo(HaveOccurred())

		host := integrators.NewEuler[float64, I](0.1)
		Expect(solver.Prepare(task)).To(Succeed())
		Expect(host.Prepare(task)).To(Succeed())

		for i := 0; i < 10; i++ {
			_, ny, err := solver.Next(task)
			Expect(err).NotTo(HaveOccurred())
			_, hy, err := host.Next(task)
			Expect(err).NotTo(HaveOccurred())

			Expect(ny[0].Lo).To(BeNumerically("~", hy[0].Lo, 1e-12))
			Expect(ny[0].Hi).To(BeNumerically("~", hy[0].Hi, 1e-12))
			Expect(ny[0].Lo).To(BeNumerically("<=", ny[0].Hi))
		}
	})

	It("exports every supported pair", func() {
		for _, open := range []func() (interface{ Close() error }, error){
			func() (interface{ Close() error }, error) { return OpenExternal[float32, dynamo.F32](dir, "euler") },
			func() (interface{ Close() error }, error) { return OpenExternal[float32, interval.Interval[float32]](dir, "euler") },
			func() (interface{ Close() error }, error) { return OpenExternal[float32, interval.Interval[float64]](dir, "euler") },
			func() (interface{ Close() error }, error) { return OpenExternal[float64, interval.Interval[float32]](dir, "euler") },
		} {
			s, err := open()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Close()).To(Succeed())
		}
	})
})
