package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/drivertest"
	"github.com/papercomputeco/sdr/pkg/transcript/postgres"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("SDR_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("SDR_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	drivertest.DescribeDriver(func() transcript.Driver {
		ctx := context.Background()

		driver, err := postgres.NewDriver(ctx, connStr())
		Expect(err).NotTo(HaveOccurred())

		// Clean all turns before each test for isolation.
		_, err = driver.DB.ExecContext(ctx, "DELETE FROM turns")
		Expect(err).NotTo(HaveOccurred())

		return driver
	})
})
