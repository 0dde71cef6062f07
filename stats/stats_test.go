package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/stats"
)

var _ = Describe("Collector", func() {
	var (
		engine    *predictor.Engine
		collector *stats.Collector
	)

	BeforeEach(func() {
		var err error
		engine, err = predictor.NewEngine(*predictor.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		collector = stats.NewCollector()
		engine.AcceptHook(collector)
	})

	It("should start empty", func() {
		s := collector.Stats()
		Expect(s.Branches).To(BeZero())
		Expect(s.Accuracy()).To(BeZero())
		Expect(s.MispredictionRate()).To(BeZero())
	})

	It("should score each prediction against its outcome", func() {
		// The default static scheme always predicts taken.
		engine.Predict(0x10)
		engine.Train(0x10, predictor.Taken)
		engine.Predict(0x14)
		engine.Train(0x14, predictor.NotTaken)
		engine.Predict(0x10)
		engine.Train(0x10, predictor.Taken)
		engine.Predict(0x14)
		engine.Train(0x14, predictor.NotTaken)

		s := collector.Stats()
		Expect(s.Branches).To(Equal(uint64(4)))
		Expect(s.Correct).To(Equal(uint64(2)))
		Expect(s.Incorrect).To(Equal(uint64(2)))
		Expect(s.Accuracy()).To(BeNumerically("~", 50.0))
		Expect(s.MispredictionRate()).To(BeNumerically("~", 50.0))
	})

	It("should ignore training without a prediction", func() {
		engine.Train(0x10, predictor.NotTaken)
		Expect(collector.Stats().Branches).To(BeZero())
	})

	It("should ignore training for a different pc", func() {
		engine.Predict(0x10)
		engine.Train(0x20, predictor.NotTaken)
		Expect(collector.Stats().Branches).To(BeZero())
	})

	It("should rank the most mispredicted branches", func() {
		for i := 0; i < 3; i++ {
			engine.Predict(0x30)
			engine.Train(0x30, predictor.NotTaken)
		}
		engine.Predict(0x20)
		engine.Train(0x20, predictor.NotTaken)
		engine.Predict(0x10)
		engine.Train(0x10, predictor.NotTaken)
		engine.Predict(0x40)
		engine.Train(0x40, predictor.Taken)

		top := collector.TopMispredicted(2)
		Expect(top).To(Equal([]stats.BranchMisses{
			{PC: 0x30, Executed: 3, Incorrect: 3},
			{PC: 0x10, Executed: 1, Incorrect: 1},
		}))
	})

	It("should reset", func() {
		engine.Predict(0x10)
		engine.Train(0x10, predictor.NotTaken)
		collector.Reset()
		Expect(collector.Stats()).To(Equal(stats.Stats{}))
		Expect(collector.TopMispredicted(5)).To(BeEmpty())
	})
})
