package trace_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("Reader", func() {
	It("should parse pc and outcome pairs", func() {
		r := trace.NewReader(strings.NewReader("0x400abc 1\n400ac0 0\n"))

		b, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(trace.Branch{PC: 0x400abc, Outcome: predictor.Taken}))

		b, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(trace.Branch{PC: 0x400ac0, Outcome: predictor.NotTaken}))

		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should skip blank lines and comments", func() {
		r := trace.NewReader(strings.NewReader("# header\n\n  0x10 1  \n"))
		branches, err := trace.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(branches).To(HaveLen(1))
	})

	It("should report the line number of a malformed entry", func() {
		r := trace.NewReader(strings.NewReader("0x10 1\n0x14 2\n"))
		_, err := trace.ReadAll(r)
		Expect(err).To(MatchError(ContainSubstring("trace line 2")))
	})

	It("should reject pcs wider than 32 bits", func() {
		_, err := trace.ParseLine("0x100000000 1")
		Expect(err).To(HaveOccurred())
	})

	It("should reject lines with missing fields", func() {
		_, err := trace.ParseLine("0x10")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("File Operations", func() {
	var (
		tempDir  string
		branches []trace.Branch
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "trace-test")
		Expect(err).NotTo(HaveOccurred())

		branches = trace.Interleave(
			trace.Loop(0x1000, 4, 3),
			trace.Alternating(0x2000, 5),
		)
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should write and read back a plain trace", func() {
		path := filepath.Join(tempDir, "trace.txt")
		var buf bytes.Buffer
		Expect(trace.Write(&buf, branches)).To(Succeed())
		Expect(os.WriteFile(path, buf.Bytes(), 0644)).To(Succeed())

		f, err := trace.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		loaded, err := trace.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(branches))
	})

	It("should decompress a gzip trace", func() {
		path := filepath.Join(tempDir, "trace.txt.gz")
		out, err := os.Create(path)
		Expect(err).NotTo(HaveOccurred())
		zw := gzip.NewWriter(out)
		Expect(trace.Write(zw, branches)).To(Succeed())
		Expect(zw.Close()).To(Succeed())
		Expect(out.Close()).To(Succeed())

		f, err := trace.Open(path)
		Expect(err).NotTo(HaveOccurred())
		loaded, err := trace.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Close()).To(Succeed())
		Expect(loaded).To(Equal(branches))
	})

	It("should return error for non-existent file", func() {
		_, err := trace.Open("/nonexistent/path/trace.txt")
		Expect(err).To(HaveOccurred())
	})

	It("should return error for a corrupt gzip file", func() {
		path := filepath.Join(tempDir, "bad.gz")
		Expect(os.WriteFile(path, []byte("plain text"), 0644)).To(Succeed())
		_, err := trace.Open(path)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Synthetic traces", func() {
	It("should build a counted loop", func() {
		branches := trace.Loop(0x40, 3, 2)
		var outcomes []predictor.Outcome
		for _, b := range branches {
			Expect(b.PC).To(Equal(uint32(0x40)))
			outcomes = append(outcomes, b.Outcome)
		}
		Expect(outcomes).To(Equal([]predictor.Outcome{
			predictor.Taken, predictor.Taken, predictor.NotTaken,
			predictor.Taken, predictor.Taken, predictor.NotTaken,
		}))
	})

	It("should alternate starting with taken", func() {
		branches := trace.Alternating(0x40, 3)
		Expect(branches[0].Outcome).To(Equal(predictor.Taken))
		Expect(branches[1].Outcome).To(Equal(predictor.NotTaken))
		Expect(branches[2].Outcome).To(Equal(predictor.Taken))
	})

	It("should interleave uneven traces", func() {
		merged := trace.Interleave(
			trace.Biased(0x1, predictor.Taken, 3),
			trace.Biased(0x2, predictor.NotTaken, 1),
		)
		var pcs []uint32
		for _, b := range merged {
			pcs = append(pcs, b.PC)
		}
		Expect(pcs).To(Equal([]uint32{0x1, 0x2, 0x1, 0x1}))
	})

	It("should replay a slice source", func() {
		src := trace.NewSliceSource(trace.Biased(0x8, predictor.Taken, 2))
		branches, err := trace.ReadAll(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(branches).To(HaveLen(2))
	})
})
