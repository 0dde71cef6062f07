package harness_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/harness"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

func mustParse(spec string) predictor.Config {
	config, err := predictor.ParseSpec(spec, predictor.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return *config
}

func mustEngine(spec string) *predictor.Engine {
	e, err := predictor.NewEngine(mustParse(spec))
	Expect(err).NotTo(HaveOccurred())
	return e
}

var _ = Describe("Simulate", func() {
	It("should miss every loop exit with the static scheme", func() {
		collector, err := harness.Simulate(mustEngine("static"),
			trace.NewSliceSource(trace.Loop(0x1000, 8, 100)))
		Expect(err).NotTo(HaveOccurred())

		s := collector.Stats()
		Expect(s.Branches).To(Equal(uint64(800)))
		Expect(s.Incorrect).To(Equal(uint64(100)))
		Expect(s.MispredictionRate()).To(BeNumerically("~", 12.5))
	})

	It("should learn an alternating branch with gshare", func() {
		collector, err := harness.Simulate(mustEngine("gshare:4"),
			trace.NewSliceSource(trace.Alternating(0x400400, 8000)))
		Expect(err).NotTo(HaveOccurred())
		Expect(collector.Stats().MispredictionRate()).To(BeNumerically("<", 1.0))
	})

	It("should stream from a text trace", func() {
		r := trace.NewReader(strings.NewReader("0x10 1\n0x10 1\n0x10 0\n"))
		collector, err := harness.Simulate(mustEngine("static"), r)
		Expect(err).NotTo(HaveOccurred())
		Expect(collector.Stats().Incorrect).To(Equal(uint64(1)))
	})

	It("should stop at a malformed trace line", func() {
		r := trace.NewReader(strings.NewReader("0x10 1\nbogus\n"))
		collector, err := harness.Simulate(mustEngine("static"), r)
		Expect(err).To(MatchError(ContainSubstring("trace line 2")))
		Expect(collector.Stats().Branches).To(Equal(uint64(1)))
	})
})

var _ = Describe("Harness", func() {
	var (
		out bytes.Buffer
		h   *harness.Harness
	)

	BeforeEach(func() {
		out.Reset()
		config := harness.DefaultConfig()
		config.Output = &out
		h = harness.NewHarness(config)

		for _, spec := range []string{"static", "gshare:10", "tournament:10:8:8", "custom:128:16"} {
			Expect(h.AddPredictor(mustParse(spec))).To(Succeed())
		}
		h.AddWorkloads(harness.GetWorkloads())
	})

	It("should reject an invalid predictor", func() {
		config := *predictor.DefaultConfig()
		config.Scheme = "oracle"
		Expect(h.AddPredictor(config)).NotTo(Succeed())
	})

	It("should run every predictor on every workload", func() {
		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4 * len(harness.GetWorkloads())))

		for _, r := range results {
			Expect(r.Branches).To(BeNumerically(">", 0))
			Expect(r.Incorrect).To(BeNumerically("<=", r.Branches))
		}
	})

	It("should give identical results on a rerun", func() {
		first, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		second, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())

		for i := range first {
			Expect(second[i].Predictor).To(Equal(first[i].Predictor))
			Expect(second[i].Incorrect).To(Equal(first[i].Incorrect))
		}
	})

	It("should beat the static scheme on the alternating workload", func() {
		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())

		rates := map[string]float64{}
		for _, r := range results {
			if r.Workload == "alternating" {
				rates[r.Predictor] = r.MispredictionRate
			}
		}
		Expect(rates["static"]).To(BeNumerically("~", 50.0))
		Expect(rates["gshare:10"]).To(BeNumerically("<", 5.0))
		Expect(rates["tournament:10:8:8"]).To(BeNumerically("<", 5.0))
	})

	It("should print a human-readable table", func() {
		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		h.PrintResults(results)

		Expect(out.String()).To(ContainSubstring("Workload: loop_8"))
		Expect(out.String()).To(ContainSubstring("tournament:10:8:8"))
	})

	It("should print CSV", func() {
		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		h.PrintCSV(results)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines[0]).To(Equal("workload,predictor,branches,incorrect,misprediction_rate"))
		Expect(lines).To(HaveLen(len(results) + 1))
	})

	It("should print JSON", func() {
		results, err := h.RunAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(h.PrintJSON(results)).To(Succeed())

		var report harness.Report
		Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
		Expect(report.Results).To(HaveLen(len(results)))
		Expect(report.Predictors).To(HaveLen(4))
	})
})

var _ = Describe("EventLogger", func() {
	It("should log predictions and training", func() {
		var out bytes.Buffer
		e := mustEngine("static")
		e.AcceptHook(harness.NewEventLogger(&out))

		e.Predict(0x40)
		e.Train(0x40, predictor.NotTaken)

		Expect(out.String()).To(Equal(
			"predict pc=0x00000040 pred=T\n" +
				"train   pc=0x00000040 outcome=N\n"))
	})
})

var _ = Describe("WorkloadFromTrace", func() {
	It("should load a whole trace", func() {
		w, err := harness.WorkloadFromTrace("tiny",
			trace.NewReader(strings.NewReader("0x10 1\n0x14 0\n")))
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Name).To(Equal("tiny"))
		Expect(w.Branches).To(HaveLen(2))
	})
})
