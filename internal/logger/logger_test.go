package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSetupWritesJSONLines(t *testing.T) {
	g := NewWithT(t)
	root := t.TempDir()

	g.Expect(IsReady()).To(MatchError(ErrNotInitialized))

	cleanup, err := Setup(Config{Root: root})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(IsReady()).To(Succeed())
	g.Expect(Path()).To(Equal(filepath.Join(root, "logs", "survlab.log")))

	L().Info("fit.done", "strategy", "Weibull")
	L().Debug("hidden")
	g.Expect(cleanup()).To(Succeed())
	g.Expect(IsReady()).To(HaveOccurred())

	data, err := os.ReadFile(filepath.Join(root, "logs", "survlab.log"))
	g.Expect(err).NotTo(HaveOccurred())

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	g.Expect(lines).To(HaveLen(2))

	var rec map[string]any
	g.Expect(json.Unmarshal([]byte(lines[1]), &rec)).To(Succeed())
	g.Expect(rec).To(HaveKeyWithValue("msg", "fit.done"))
	g.Expect(rec).To(HaveKeyWithValue("strategy", "Weibull"))
}

func TestDebugEnablesDebugRecords(t *testing.T) {
	g := NewWithT(t)
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Debug: true})
	g.Expect(err).NotTo(HaveOccurred())
	L().Debug("cycle.start")
	g.Expect(cleanup()).To(Succeed())

	data, err := os.ReadFile(filepath.Join(root, "logs", "survlab.log"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(ContainSubstring(`"msg":"cycle.start"`))
	g.Expect(string(data)).To(ContainSubstring(`"source"`))
}
