package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		homeDir string
		cwd     string
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		cwd = GinkgoT().TempDir()

		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		GinkgoT().Setenv("SDR_SQLITE", "")

		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(cwd)).To(Succeed())
		DeferCleanup(os.Chdir, origCwd)
	})

	It("returns the override untouched", func() {
		path, err := ResolveSQLitePath("/tmp/explicit.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/explicit.db"))
	})

	It("prefers SDR_SQLITE when set", func() {
		GinkgoT().Setenv("SDR_SQLITE", "/tmp/custom.db")

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("resolves ~/.sdr/transcripts.db when present", func() {
		dbPath := filepath.Join(homeDir, ".sdr", "transcripts.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("prefers the local .sdr/ database over the home one", func() {
		for _, dir := range []string{filepath.Join(homeDir, ".sdr"), ".sdr"} {
			Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "transcripts.db"), []byte("test"), 0o644)).To(Succeed())
		}

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(".sdr", "transcripts.db")))
	})

	It("fails when no database exists", func() {
		_, err := ResolveSQLitePath("")
		Expect(err).To(MatchError(ContainSubstring("could not find sdr transcript database")))
	})
})

var _ = Describe("DefaultSQLitePath", func() {
	It("places the database in the config directory", func() {
		dir := GinkgoT().TempDir()

		path, err := DefaultSQLitePath(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "transcripts.db")))
	})
})
