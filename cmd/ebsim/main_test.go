// Package main provides tests for the EBSim CLI wiring.
package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ebsim/stimulus"
)

func TestEBSim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EBSim Suite")
}

var _ = Describe("loadConfig", func() {
	BeforeEach(func() {
		*configPath = ""
		*ticks = 0
		*seed = 0
		*width = 0
	})

	It("should fall back to defaults with no flags", func() {
		config, err := loadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(config).To(Equal(stimulus.DefaultConfig()))
	})

	It("should apply flag overrides", func() {
		*ticks = 321
		*seed = 9
		*width = 16

		config, err := loadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Ticks).To(Equal(uint64(321)))
		Expect(config.Seed).To(Equal(int64(9)))
		Expect(config.DataWidth).To(Equal(16))
	})

	It("should reject an invalid width override", func() {
		*width = -1

		config, err := loadConfig()
		Expect(err).NotTo(HaveOccurred())
		_, err = stimulus.NewDriver(config)
		Expect(err).To(HaveOccurred())
	})
})
