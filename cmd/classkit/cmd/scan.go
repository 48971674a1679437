package cmd

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rkall/classkit/pkg/classfile"
	"github.com/rkall/classkit/pkg/index"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <dir|jar|file.class>",
	Short: "Scan class files into the index",
	Long: `Scan a directory tree, a JAR, or a single class file and store a
summary of every class found in the index.

Examples:
  classkit scan ./build/classes
  classkit scan app.jar --data-dir ./data`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]
		dataDir, _ := cmd.Flags().GetString("data-dir")

		idx, err := index.Open(dataDir)
		if err != nil {
			cmd.Printf("Error opening index: %v\n", err)
			return
		}
		defer idx.Close()

		scanID := index.NewScanID()
		scanner := &classScanner{cmd: cmd, index: idx, scanID: scanID}

		info, err := os.Stat(target)
		if err != nil {
			cmd.Printf("Error reading target: %v\n", err)
			return
		}

		switch {
		case info.IsDir():
			err = scanner.scanDir(target)
		case isArchive(target):
			err = scanner.scanArchive(target)
		default:
			err = scanner.scanFile(target)
		}
		if err != nil {
			cmd.Printf("Error scanning: %v\n", err)
			return
		}

		cmd.Printf("Scan %s complete: %d classes indexed, %d skipped\n", scanID, scanner.indexed, scanner.skipped)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip"
}

// classScanner accumulates results across one scan session.
type classScanner struct {
	cmd     *cobra.Command
	index   *index.Index
	scanID  string
	indexed int
	skipped int
}

func (s *classScanner) scanDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isArchive(path) {
			return s.scanArchive(path)
		}
		if filepath.Ext(path) == ".class" {
			return s.scanFile(path)
		}
		return nil
	})
}

func (s *classScanner) scanArchive(path string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if filepath.Ext(entry.Name) != ".class" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		s.indexBytes(data, path+"!"+entry.Name)
	}
	return nil
}

func (s *classScanner) scanFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.indexBytes(data, path)
	return nil
}

// indexBytes parses and indexes one class. Malformed classes are reported
// and skipped so one bad entry does not abort a whole scan.
func (s *classScanner) indexBytes(data []byte, sourcePath string) {
	cf, err := classfile.Parse(data)
	if err != nil {
		s.cmd.Printf("Skipping %s: %v\n", sourcePath, err)
		s.skipped++
		return
	}
	summary, err := index.Summarize(cf, sourcePath, s.scanID)
	if err != nil {
		s.cmd.Printf("Skipping %s: %v\n", sourcePath, err)
		s.skipped++
		return
	}
	if err := s.index.Put(summary); err != nil {
		s.cmd.Printf("Skipping %s: %v\n", sourcePath, err)
		s.skipped++
		return
	}
	s.indexed++
}
