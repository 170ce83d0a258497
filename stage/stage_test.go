package stage_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebsim/stage"
	"github.com/sarchlab/ebsim/word"
)

func TestStage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stage Suite")
}

var _ = Describe("Stage", func() {
	var s *stage.Stage

	BeforeEach(func() {
		var err error
		s, err = stage.New(32)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("should create an empty stage", func() {
			Expect(s.Occupied()).To(BeFalse())
			Expect(s.Width().Bits()).To(Equal(32))
		})

		It("should reject zero width", func() {
			_, err := stage.New(0)
			Expect(err).To(HaveOccurred())
		})

		It("should reject widths above 64", func() {
			_, err := stage.New(128)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Signals", func() {
		It("should report ready and not valid while empty", func() {
			out := s.Signals(false)
			Expect(out.UpstreamReady).To(BeTrue())
			Expect(out.DownstreamValid).To(BeFalse())
		})

		It("should report not ready while full under backpressure", func() {
			s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 7})

			out := s.Signals(false)
			Expect(out.UpstreamReady).To(BeFalse())
			Expect(out.DownstreamValid).To(BeTrue())
			Expect(out.DownstreamData).To(Equal(word.Word(7)))
		})

		It("should report ready while full when the consumer accepts", func() {
			s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 7})

			out := s.Signals(true)
			Expect(out.UpstreamReady).To(BeTrue())
			Expect(out.DownstreamValid).To(BeTrue())
		})

		It("should not mutate the stage", func() {
			s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 7})

			for i := 0; i < 5; i++ {
				out := s.Signals(true)
				Expect(out.DownstreamData).To(Equal(word.Word(7)))
			}
			Expect(s.Occupied()).To(BeTrue())
		})
	})

	Describe("Tick", func() {
		Context("accepting into an empty slot", func() {
			It("should fill the slot and recognize the input transfer", func() {
				out := s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0x1234})

				Expect(out.InputTransfer).To(BeTrue())
				Expect(out.OutputTransfer).To(BeFalse())
				Expect(s.Occupied()).To(BeTrue())
			})

			It("should truncate the incoming item to the data width", func() {
				narrow, err := stage.New(8)
				Expect(err).NotTo(HaveOccurred())

				narrow.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0x1FF})

				out := narrow.Signals(false)
				Expect(out.DownstreamData).To(Equal(word.Word(0xFF)))
			})

			It("should not accept without upstream valid", func() {
				out := s.Tick(stage.Input{UpstreamData: 0x1234})

				Expect(out.InputTransfer).To(BeFalse())
				Expect(s.Occupied()).To(BeFalse())
			})
		})

		Context("backpressure", func() {
			BeforeEach(func() {
				s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0xAB})
			})

			It("should hold the item while the consumer is not ready", func() {
				for i := 0; i < 10; i++ {
					out := s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0xCD})
					Expect(out.DownstreamValid).To(BeTrue())
					Expect(out.DownstreamData).To(Equal(word.Word(0xAB)))
					Expect(out.UpstreamReady).To(BeFalse())
					Expect(out.InputTransfer).To(BeFalse())
				}
				Expect(s.Stats().StallTicks).To(Equal(uint64(10)))
			})

			It("should empty the slot when the consumer accepts", func() {
				out := s.Tick(stage.Input{DownstreamReady: true})

				Expect(out.OutputTransfer).To(BeTrue())
				Expect(out.DownstreamData).To(Equal(word.Word(0xAB)))
				Expect(s.Occupied()).To(BeFalse())
			})
		})

		Context("simultaneous transfer", func() {
			BeforeEach(func() {
				s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 1})
			})

			It("should deliver the held item and accept the new one in one tick", func() {
				out := s.Tick(stage.Input{
					UpstreamValid:   true,
					UpstreamData:    2,
					DownstreamReady: true,
				})

				Expect(out.InputTransfer).To(BeTrue())
				Expect(out.OutputTransfer).To(BeTrue())
				Expect(out.DownstreamData).To(Equal(word.Word(1)))

				next := s.Signals(false)
				Expect(next.DownstreamValid).To(BeTrue())
				Expect(next.DownstreamData).To(Equal(word.Word(2)))
			})

			It("should count the pass-through", func() {
				s.Tick(stage.Input{
					UpstreamValid:   true,
					UpstreamData:    2,
					DownstreamReady: true,
				})
				Expect(s.Stats().PassThroughs).To(Equal(uint64(1)))
			})
		})

		Context("reset", func() {
			It("should clear an occupied slot", func() {
				s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0x42})

				out := s.Tick(stage.Input{Reset: true, UpstreamValid: true, UpstreamData: 0x99})
				Expect(out.DownstreamValid).To(BeFalse())
				Expect(out.UpstreamReady).To(BeFalse())
				Expect(out.InputTransfer).To(BeFalse())
				Expect(out.OutputTransfer).To(BeFalse())

				next := s.Signals(true)
				Expect(next.DownstreamValid).To(BeFalse())
				Expect(s.Occupied()).To(BeFalse())
			})

			It("should override a simultaneous transfer", func() {
				s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 1})

				out := s.Tick(stage.Input{
					Reset:           true,
					UpstreamValid:   true,
					UpstreamData:    2,
					DownstreamReady: true,
				})
				Expect(out.InputTransfer).To(BeFalse())
				Expect(out.OutputTransfer).To(BeFalse())
				Expect(s.Occupied()).To(BeFalse())
			})

			It("should resume normal operation from empty after release", func() {
				s.Tick(stage.Input{Reset: true})

				out := s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0x55})
				Expect(out.UpstreamReady).To(BeTrue())
				Expect(out.InputTransfer).To(BeTrue())

				next := s.Signals(false)
				Expect(next.DownstreamValid).To(BeTrue())
				Expect(next.DownstreamData).To(Equal(word.Word(0x55)))
			})

			It("should hold empty while reset stays asserted", func() {
				for i := 0; i < 4; i++ {
					out := s.Tick(stage.Input{
						Reset:         true,
						UpstreamValid: true,
						UpstreamData:  word.Word(i),
					})
					Expect(out.DownstreamValid).To(BeFalse())
				}
				Expect(s.Stats().Resets).To(Equal(uint64(4)))
			})
		})
	})

	// Scenario A: one item held under backpressure, then acknowledged.
	Describe("hold and acknowledge", func() {
		It("should hold 0xDEADBEEF stable until the consumer accepts", func() {
			out := s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 0xDEADBEEF})
			Expect(out.InputTransfer).To(BeTrue())

			for i := 0; i < 3; i++ {
				out = s.Tick(stage.Input{})
				Expect(out.DownstreamValid).To(BeTrue())
				Expect(out.DownstreamData).To(Equal(word.Word(0xDEADBEEF)))
			}

			out = s.Tick(stage.Input{DownstreamReady: true})
			Expect(out.OutputTransfer).To(BeTrue())
			Expect(out.DownstreamData).To(Equal(word.Word(0xDEADBEEF)))

			out = s.Tick(stage.Input{})
			Expect(out.DownstreamValid).To(BeFalse())
		})
	})

	// Scenario B: back-to-back stream at full throughput.
	Describe("streaming at full throughput", func() {
		It("should move items 0..9 one per tick with no gaps", func() {
			var delivered []word.Word
			next := word.Word(0)

			for tick := 0; tick < 11; tick++ {
				in := stage.Input{DownstreamReady: true}
				if next <= 9 && s.Signals(true).UpstreamReady {
					in.UpstreamValid = true
					in.UpstreamData = next
				}
				out := s.Tick(in)
				if out.InputTransfer {
					next++
				}
				if out.OutputTransfer {
					delivered = append(delivered, out.DownstreamData)
				}
			}

			Expect(delivered).To(Equal([]word.Word{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
			Expect(s.Stats().PassThroughs).To(Equal(uint64(9)))
			Expect(s.Stats().Throughput()).To(BeNumerically(">", 0.9))
		})
	})

	Describe("Statistics", func() {
		It("should balance accepted against emitted plus in flight", func() {
			s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 1})
			s.Tick(stage.Input{UpstreamValid: true, UpstreamData: 2, DownstreamReady: true})
			s.Tick(stage.Input{DownstreamReady: true})

			stats := s.Stats()
			Expect(stats.Accepted).To(Equal(uint64(2)))
			Expect(stats.Emitted).To(Equal(uint64(2)))
			Expect(stats.InFlight()).To(Equal(uint64(0)))
		})

		It("should report zero rates before any tick", func() {
			Expect(s.Stats().Throughput()).To(Equal(0.0))
			Expect(s.Stats().Occupancy()).To(Equal(0.0))
		})
	})
})
