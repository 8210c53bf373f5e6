package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultExt is the item suffix when none is configured.
const DefaultExt = ".md"

// Store maps titles and file references to items in a Backend.
type Store struct {
	backend Backend
	ext     string
	now     func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used for the Date of new items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(backend Backend, ext string, opts ...Option) *Store {
	if ext == "" {
		ext = DefaultExt
	}
	s := &Store{backend: backend, ext: ext, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ext returns the content extension appended to every item name.
func (s *Store) Ext() string { return s.ext }

// Backend exposes the underlying backend, for health checks.
func (s *Store) Backend() Backend { return s.backend }

// Created is the outcome of Create. It is filled in on Conflict as well.
type Created struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	File    string `json:"file"`
}

// Create derives a slug from title and writes a new item holding a front
// matter template. An existing item is never overwritten: Create then
// returns the composed result together with an ErrConflict error.
func (s *Store) Create(ctx context.Context, title string) (Created, error) {
	title = StripTags(title)
	slug := Slugify(lastSegment(title))
	if slug == "" {
		return Created{}, opError("create", ErrInvalidName, "Error: Invalid file name", nil)
	}

	res := Created{
		Title:   title,
		Content: newItemBody(title, s.now()),
		File:    slug,
	}
	name := slug + s.ext

	exists, err := s.backend.Exists(ctx, name)
	if err != nil {
		return res, opError("create", ErrStorage, "Error: Could not check for existing file", err)
	}
	if exists {
		return res, opError("create", ErrConflict, "Error: A post already exists with this title", nil)
	}

	if err := s.backend.Create(ctx, name, []byte(res.Content)); err != nil {
		if errors.Is(err, ErrExist) {
			return res, opError("create", ErrConflict, "Error: A post already exists with this title", nil)
		}
		return res, opError("create", ErrStorage, "Error: Could not write file", err)
	}
	return res, nil
}

// Open returns the exact bytes of the item ref resolves to.
func (s *Store) Open(ctx context.Context, ref string) ([]byte, error) {
	name := ResolveName(ref)
	if name == "" {
		return nil, opError("open", ErrInvalidRequest,
			fmt.Sprintf("Open Error: Invalid file %s at the URL: %s", name, ref), nil)
	}
	name += s.ext

	data, err := s.backend.Read(ctx, name)
	if errors.Is(err, ErrNotExist) {
		return nil, opError("open", ErrNotFound,
			fmt.Sprintf("Open Error: Invalid file %s at the URL: %s", name, ref), nil)
	}
	if err != nil {
		return nil, opError("open", ErrStorage, "Open Error: Could not read file "+name, err)
	}
	return data, nil
}

// Save replaces the item wholesale and echoes content back.
func (s *Store) Save(ctx context.Context, ref, content string) (string, error) {
	name := ResolveName(ref)
	if name == "" {
		return "", opError("save", ErrInvalidRequest, "Save Error: Invalid file", nil)
	}
	if content == "" {
		return "", opError("save", ErrInvalidRequest, "Save Error: Invalid content", nil)
	}
	name += s.ext

	if err := s.backend.Write(ctx, name, []byte(content)); err != nil {
		return "", opError("save", ErrStorage, "Save Error: Could not write file "+name, err)
	}
	return content, nil
}

// Delete removes the item. A missing item is reported as ErrNotFound.
func (s *Store) Delete(ctx context.Context, ref string) (bool, error) {
	name := ResolveName(ref)
	if name == "" {
		return false, opError("delete", ErrInvalidRequest, "Delete Error: Invalid file", nil)
	}
	name += s.ext

	err := s.backend.Remove(ctx, name)
	if errors.Is(err, ErrNotExist) {
		return false, opError("delete", ErrNotFound,
			fmt.Sprintf("Delete Error: Invalid file %s at the URL: %s", name, ref), nil)
	}
	if err != nil {
		return false, opError("delete", ErrStorage, "Delete Error: Could not remove file "+name, err)
	}
	return true, nil
}

// Item is one entry of the editor's file list.
type Item struct {
	File     string
	Title    string
	Size     int64
	Modified time.Time
}

// List returns the items stored directly in the content root, sorted by
// file name. Titles come from front matter and fall back to the file name.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	objects, err := s.backend.List(ctx)
	if err != nil {
		return nil, opError("list", ErrStorage, "List Error: Could not list files", err)
	}

	items := make([]Item, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Name, s.ext) || len(obj.Name) == len(s.ext) {
			continue
		}
		item := Item{
			File:     strings.TrimSuffix(obj.Name, s.ext),
			Size:     obj.Size,
			Modified: obj.Modified,
		}
		if data, err := s.backend.Read(ctx, obj.Name); err == nil {
			if h, _, err := ParseHeader(data); err == nil {
				item.Title = strings.TrimSpace(h.Title)
			}
		}
		if item.Title == "" {
			item.Title = item.File
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].File < items[j].File })
	return items, nil
}
