package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/drivertest"
	"github.com/papercomputeco/sdr/pkg/transcript/sqlite"
)

var _ = Describe("Driver", func() {
	drivertest.DescribeDriver(func() transcript.Driver {
		driver, err := sqlite.NewDriver(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return driver
	})

	Describe("NewDriver", func() {
		It("creates the database file", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "transcripts.db")

			driver, err := sqlite.NewDriver(context.Background(), dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer driver.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reopens an existing database without losing turns", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "transcripts.db")

			first, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			turn := drivertest.NewTurn("s1", 0)
			Expect(first.Put(ctx, turn)).To(Succeed())
			Expect(first.Close()).To(Succeed())

			second, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer second.Close()

			got, err := second.Get(ctx, turn.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Reply).To(Equal(turn.Reply))
		})
	})
})
