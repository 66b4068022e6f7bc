// Package fileio opens local files and Google Cloud Storage objects by URL.
package fileio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// gsCloser closes the object stream and then the storage client that owns it.
type gsCloser struct {
	stream io.Closer
	client *storage.Client
}

func (c gsCloser) Close() error {
	err := c.stream.Close()
	if cerr := c.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type gsReader struct {
	io.Reader
	gsCloser
}

type gsWriter struct {
	io.Writer
	gsCloser
}

// location is a parsed file argument: a GCS object when bucket is set, otherwise a local path.
type location struct {
	bucket string
	object string
	path   string
}

func parse(f string) (location, error) {
	u, err := url.Parse(f)
	if err != nil {
		return location{}, err
	}
	switch u.Scheme {
	case "gs":
		if u.Host == "" {
			return location{}, fmt.Errorf("missing bucket in '%s'", f)
		}
		return location{bucket: u.Host, object: strings.Trim(u.Path, "/")}, nil
	case "file", "":
		return location{path: u.Path}, nil
	}
	return location{}, fmt.Errorf("unable to determine how to open '%s'", f)
}

// handle opens a storage client for l's object. The caller closes the client.
func (l location) handle(ctx context.Context) (*storage.Client, *storage.ObjectHandle, error) {
	gsClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	return gsClient, gsClient.Bucket(l.bucket).Object(l.object), nil
}

// OpenReader opens f for reading. f is a local path, a file:// URL, or a gs://bucket/object URL.
func OpenReader(ctx context.Context, f string) (io.ReadCloser, error) {
	l, err := parse(f)
	if err != nil {
		return nil, err
	}
	if l.bucket == "" {
		r, err := os.Open(l.path)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	gsClient, obj, err := l.handle(ctx)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		gsClient.Close()
		return nil, err
	}
	return gsReader{Reader: r, gsCloser: gsCloser{stream: r, client: gsClient}}, nil
}

// OpenWriter creates or truncates f for writing. For gs:// URLs the object is only written once the writer is closed.
func OpenWriter(ctx context.Context, f string) (io.WriteCloser, error) {
	l, err := parse(f)
	if err != nil {
		return nil, err
	}
	if l.bucket == "" {
		w, err := os.Create(l.path)
		if err != nil {
			return nil, err
		}
		return w, nil
	}

	gsClient, obj, err := l.handle(ctx)
	if err != nil {
		return nil, err
	}
	w := obj.NewWriter(ctx)
	return gsWriter{Writer: w, gsCloser: gsCloser{stream: w, client: gsClient}}, nil
}

// CreationTime gets the creation time of a Google Storage object, or the modification time of a file on disk.
func CreationTime(ctx context.Context, f string) (time.Time, error) {
	l, err := parse(f)
	if err != nil {
		return time.Time{}, err
	}
	if l.bucket == "" {
		s, err := os.Stat(l.path)
		if err != nil {
			return time.Time{}, err
		}
		return s.ModTime(), nil
	}

	gsClient, obj, err := l.handle(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer gsClient.Close()
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return attrs.Created, nil
}
