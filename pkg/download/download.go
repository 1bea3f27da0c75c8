// Package download retrieves MIDI files from the archive through a bounded
// worker pool.
//
// Batch fans a slice of catalog songs out to concurrent workers, writes each
// file under a destination directory and reports a per-song Result. One
// fetches a single song into memory. Both compare the retrieved bytes
// against the byte count and MD5 digest recorded in the catalog unless
// verification is disabled.
package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/midivault/midivault/internal/transport"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
	"github.com/midivault/midivault/pkg/logging"
)

// options holds the resolved download settings.
type options struct {
	concurrency  int
	verify       bool
	skipExisting bool
	transport    *transport.Client
}

// defaultOptions returns the settings used when no Option overrides them.
func defaultOptions() options {
	return options{
		concurrency: constants.DefaultDownloadWorkers,
		verify:      true,
	}
}

// normalize clamps the worker count to [1, constants.MaxDownloadWorkers].
func (o *options) normalize() {
	if o.concurrency <= 0 {
		o.concurrency = constants.DefaultDownloadWorkers
	}
	if o.concurrency > constants.MaxDownloadWorkers {
		o.concurrency = constants.MaxDownloadWorkers
	}
}

// Option configures a download call.
type Option func(*options)

// WithConcurrency sets the number of download workers. Values below one fall
// back to the default and values above constants.MaxDownloadWorkers are
// clamped. The default of five is a courtesy to the archive, which is run by
// volunteers; raise it with care.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithVerify controls whether retrieved bytes are checked against the byte
// count and MD5 digest from the catalog. Verification is on unless disabled
// here.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}

// WithSkipExisting makes Batch leave files that already exist at the target
// path untouched instead of downloading them again.
func WithSkipExisting(skip bool) Option {
	return func(o *options) {
		o.skipExisting = skip
	}
}

// WithTransport sets the HTTP client used for downloads. Without it each
// call creates a default client and releases it on return.
func WithTransport(client *transport.Client) Option {
	return func(o *options) {
		o.transport = client
	}
}

// Result reports the outcome of a single song download.
type Result struct {
	Song    catalog.Song // the catalog record that was downloaded
	Path    string       // destination file path, empty for in-memory fetches
	Size    int64        // bytes written or found on disk
	Skipped bool         // true when an existing file was left in place
	Err     error        // nil on success
}

// job pairs a song with its slot in the results slice.
type job struct {
	index int
	song  catalog.Song
}

// Batch downloads songs into dest, creating the directory if needed. Songs
// are spread across a bounded pool of workers and every song gets exactly
// one Result, in input order. A failed song never aborts its siblings; the
// returned error is nil unless the batch as a whole could not run, such as
// an unwritable destination or a cancelled context.
func Batch(ctx context.Context, songs []catalog.Song, dest string, opts ...Option) ([]Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	if err := os.MkdirAll(dest, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", dest, err)
	}
	if len(songs) == 0 {
		return nil, nil
	}

	client := o.transport
	if client == nil {
		client = transport.NewDefault()
		defer client.Close()
	}

	ctx = logging.WithBatch(ctx, uuid.NewString())
	log := logging.Ctx(ctx)
	log.Info().
		Int("songs", len(songs)).
		Int("workers", o.concurrency).
		Str("dest", dest).
		Msg("starting download batch")

	results := make([]Result, len(songs))
	jobs := make(chan job, o.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < o.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = downloadSong(ctx, client, j.song, dest, o)
			}
		}()
	}

	for i, song := range songs {
		select {
		case jobs <- job{index: i, song: song}:
		case <-ctx.Done():
			// Songs from i on were never queued; in-flight workers
			// still report into their own slots.
			for rest := i; rest < len(songs); rest++ {
				results[rest] = Result{Song: songs[rest], Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	var failed, skipped int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		if res.Skipped {
			skipped++
		}
	}
	log.Info().
		Int("succeeded", len(songs)-failed).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("download batch finished")

	return results, nil
}

// One downloads a single song and returns its raw bytes without touching
// the filesystem.
func One(ctx context.Context, song catalog.Song, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	client := o.transport
	if client == nil {
		client = transport.NewDefault()
		defer client.Close()
	}
	return fetch(ctx, client, song, o.verify)
}

// downloadSong retrieves one song and writes it to dest. All failures are
// reported through the Result rather than returned, so the worker loop
// keeps draining jobs.
func downloadSong(ctx context.Context, client *transport.Client, song catalog.Song, dest string, o options) Result {
	res := Result{Song: song}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	res.Path = filepath.Join(dest, song.Filename())

	if o.skipExisting {
		if info, err := os.Stat(res.Path); err == nil && !info.IsDir() {
			res.Size = info.Size()
			res.Skipped = true
			logging.Ctx(ctx).Debug().
				Str("path", res.Path).
				Msg("file exists, skipping download")
			return res
		}
	}

	data, err := fetch(ctx, client, song, o.verify)
	if err != nil {
		res.Err = err
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("title", song.Title).
			Str("url", song.URL).
			Msg("song download failed")
		return res
	}

	if err := os.WriteFile(res.Path, data, constants.FilePermissions); err != nil {
		res.Err = errors.WrapIO("write", res.Path, err)
		return res
	}
	res.Size = int64(len(data))
	logging.Ctx(ctx).Debug().
		Str("path", res.Path).
		Int("bytes", len(data)).
		Msg("downloaded song")
	return res
}

// fetch retrieves the song body and, when verify is set, checks it against
// the catalog record before handing it back.
func fetch(ctx context.Context, client *transport.Client, song catalog.Song, verify bool) ([]byte, error) {
	resp, err := client.Get(ctx, song.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapTransport(song.URL, resp.StatusCode, err)
	}

	if verify {
		sum := md5.Sum(data)
		gotSum := hex.EncodeToString(sum[:])
		if len(data) != song.Size || gotSum != song.Checksum {
			return nil, errors.NewVerificationError(song.Title, song.Size, len(data), song.Checksum, gotSum)
		}
	}
	return data, nil
}
