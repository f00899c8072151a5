package archive

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/schollz/progressbar/v3"

	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/utils/logger"
)

// Fetcher downloads the Packages metadata of a release series from one
// mirror. A nil Cache disables caching; Quiet suppresses the progress
// bar.
type Fetcher struct {
	Mirror  string
	Series  string
	Arch    string
	Workers int
	Client  *retryablehttp.Client
	Cache   *Cache
	Quiet   bool
}

// Fetch downloads all given sources using a pool of workers and
// returns the decompressed metadata in source order. Sources the
// mirror does not publish are skipped; download errors are logged and
// the affected source is skipped as well.
func (f *Fetcher) Fetch(sources []index.Source) ([]index.SourceData, error) {
	log := logger.Logger()

	if len(sources) == 0 {
		return nil, nil
	}
	if f.Client == nil {
		f.Client = NewHTTPClient(30*time.Second, 3)
	}
	workers := f.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	total := len(sources)
	jobs := make(chan int, total)
	contents := make([]string, total)
	var wg sync.WaitGroup

	// one progress bar tracking sources completed vs total
	bar := f.newProgressBar(total)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				bar.Describe(fmt.Sprintf("fetching %s", src))

				content, err := f.fetchSource(src)
				if err != nil {
					log.Errorf("fetching %s failed: %v", src, err)
				}
				contents[i] = content
				bar.Add(1)
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	bar.Finish()

	data := make([]index.SourceData, 0, total)
	for i, src := range sources {
		if contents[i] == "" {
			continue
		}
		data = append(data, index.SourceData{Source: src, Contents: contents[i]})
	}
	log.Debugf("fetched %d of %d sources for %s", len(data), total, f.Series)
	return data, nil
}

func (f *Fetcher) newProgressBar(total int) *progressbar.ProgressBar {
	writer := io.Writer(os.Stderr)
	if f.Quiet {
		writer = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetDescription("fetching metadata"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

// fetchSource returns the decompressed metadata of one source, served
// from cache when the mirror copy is no newer. An empty string with a
// nil error means the mirror does not publish the source.
func (f *Fetcher) fetchSource(src index.Source) (string, error) {
	log := logger.Logger()

	if f.Cache != nil {
		if content, ok := f.loadCached(src); ok {
			log.Debugf("%s: cache is current", src)
			return content, nil
		}
	}

	for _, filename := range packagesFiles {
		url := PackagesURL(f.Mirror, f.Series, src, f.Arch, filename)
		resp, err := f.Client.Get(url)
		if err != nil {
			return "", fmt.Errorf("get %s: %w", url, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", url, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}

		content, err := decompress(filename, body)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", url, err)
		}

		if f.Cache != nil {
			if err := f.Cache.Store(f.Series, src, content); err != nil {
				log.Warnf("caching %s failed: %v", src, err)
			}
		}
		return content, nil
	}

	log.Debugf("%s: not published on %s", src, f.Mirror)
	return "", nil
}

// loadCached serves one source from cache when the cached file is at
// least as new as the mirror's Last-Modified stamp. A failed HEAD
// request counts as current; a missing Last-Modified header counts as
// stale.
func (f *Fetcher) loadCached(src index.Source) (string, bool) {
	mtime, ok := f.Cache.ModTime(f.Series, src)
	if !ok {
		return "", false
	}

	url := PackagesURL(f.Mirror, f.Series, src, f.Arch, packagesFiles[0])
	resp, err := f.Client.Head(url)
	if err == nil {
		lastModified := resp.Header.Get("Last-Modified")
		resp.Body.Close()
		if lastModified == "" {
			return "", false
		}
		serverTime, err := http.ParseTime(lastModified)
		if err != nil || mtime.Before(serverTime) {
			return "", false
		}
	}

	return f.Cache.Load(f.Series, src)
}
