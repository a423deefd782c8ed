package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tracontent/pkg/config"
	"tracontent/pkg/models"
)

type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"` // Path for usage in page bodies
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// SafeJoin joins target under root/sub, refusing path traversal.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// siteMediaDir is the upload directory of one site. The domain doubles as
// the directory name, with the port separator made filesystem-safe.
func siteMediaDir(site *models.Site) string {
	return strings.ReplaceAll(site.Domain, ":", "_")
}

func siteMediaURL(site *models.Site, filename string) string {
	return config.MediaURL + "/" + siteMediaDir(site) + "/" + filename
}

// ListMediaFiles lists the uploads of a site.
func ListMediaFiles(site *models.Site) ([]MediaFile, error) {
	dir := filepath.Join(config.MediaRoot, siteMediaDir(site))

	// Create if not exists
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []MediaFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		url := siteMediaURL(site, entry.Name())
		files = append(files, MediaFile{
			Name: entry.Name(),
			Path: url,
			Size: info.Size(),
			URL:  url,
		})
	}
	return files, nil
}

// SaveMediaFile stores an upload under the site's media directory. The
// filename gets a timestamp suffix so re-uploads never clobber each other.
func SaveMediaFile(site *models.Site, header *multipart.FileHeader) (*MediaFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := filepath.Base(header.Filename)
	filename = strings.ReplaceAll(filename, " ", "_")

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%d%s", name, time.Now().Unix(), ext)

	dir := filepath.Join(config.MediaRoot, siteMediaDir(site))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fullPath := SafeJoin(config.MediaRoot, siteMediaDir(site), filename)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid media path")
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	url := siteMediaURL(site, filename)
	return &MediaFile{
		Name: filename,
		Path: url,
		Size: header.Size,
		URL:  url,
	}, nil
}

// DeleteMediaFile removes an upload from the site's media directory.
func DeleteMediaFile(site *models.Site, filename string) error {
	fullPath := SafeJoin(config.MediaRoot, siteMediaDir(site), filepath.Base(filename))
	if fullPath == "" {
		return fmt.Errorf("invalid media path")
	}
	return os.Remove(fullPath)
}
