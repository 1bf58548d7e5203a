package main

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/astra-lang/astra/internal/config"
	"github.com/astra-lang/astra/internal/manifest"
)

// runPackage builds a distributable tarball of the project rooted at the
// directory containing astra.toml: all recognized source files plus the
// manifest itself, named after [package].name/version. Package
// resolution and lockfile generation are external-collaborator concerns
// per spec §1/§6 -- this only assembles the archive, it does not resolve
// or vendor [dependencies].
func runPackage(outDir string) int {
	manifestPath, err := manifest.Find(".")
	if err != nil || manifestPath == "" {
		fmt.Fprintf(os.Stderr, "no %s found\n", config.ManifestFileName)
		return 1
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	root := filepath.Dir(manifestPath)

	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	archivePath := filepath.Join(outDir, fmt.Sprintf("%s-%s.tar.gz", m.Package.Name, m.Package.Version))

	out, err := os.Create(archivePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	if err := addFileToArchive(tw, manifestPath, config.ManifestFileName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !config.HasSourceExt(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return addFileToArchive(tw, path, rel)
	})
	if walkErr != nil {
		fmt.Fprintln(os.Stderr, walkErr)
		return 1
	}

	fmt.Printf("packaged %s\n", archivePath)
	return 0
}

func addFileToArchive(tw *tar.Writer, path, archiveName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	hdr := &tar.Header{Name: archiveName, Mode: 0o644, Size: int64(len(data))}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = tw.Write(data)
	return err
}
