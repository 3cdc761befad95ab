package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bookswap/internal/domain/model"
)

type output struct {
	format string
	w      io.Writer
}

func (o *output) json(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// books prints a table in text mode.
func (o *output) books(books []model.Book) error {
	if o.format == "json" {
		return o.json(books)
	}
	if len(books) == 0 {
		fmt.Fprintln(o.w, "No Books Found")
		return nil
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tLOCATION\tSTATUS")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, dash(b.Genre), b.Location, b.Status)
	}
	return tw.Flush()
}

func (o *output) book(b *model.Book) error {
	if o.format == "json" {
		return o.json(b)
	}
	fmt.Fprintf(o.w, "%s by %s [%s]\n", b.Title, b.Author, b.Status)
	fmt.Fprintf(o.w, "  id:       %s\n", b.ID)
	if b.Genre != "" {
		fmt.Fprintf(o.w, "  genre:    %s\n", b.Genre)
	}
	fmt.Fprintf(o.w, "  location: %s\n", b.Location)
	fmt.Fprintf(o.w, "  contact:  %s\n", b.Contact)
	if b.PublishYear != nil {
		fmt.Fprintf(o.w, "  year:     %d\n", *b.PublishYear)
	}
	if b.Description != "" {
		fmt.Fprintf(o.w, "  about:    %s\n", b.Description)
	}
	if b.Owner != nil {
		fmt.Fprintf(o.w, "  owner:    %s <%s> %s\n", b.Owner.Name, b.Owner.Email, b.Owner.Phone)
	}
	fmt.Fprintf(o.w, "  cover:    %s\n", b.BookCover)
	return nil
}

func (o *output) stats(s model.BookStats) error {
	if o.format == "json" {
		return o.json(s)
	}
	fmt.Fprintf(o.w, "total %d  available %d  rented %d  exchanged %d\n", s.Total, s.Available, s.Rented, s.Exchanged)
	return nil
}

func (o *output) user(u *model.User) error {
	if o.format == "json" {
		return o.json(u)
	}
	fmt.Fprintf(o.w, "%s <%s> (%s) %s\n", u.Name, u.Email, u.Role, u.ID)
	return nil
}

func (o *output) options(opts *model.FilterOptions) error {
	if o.format == "json" {
		return o.json(opts)
	}
	fmt.Fprintf(o.w, "genres:    %s\n", strings.Join(opts.Genres, ", "))
	fmt.Fprintf(o.w, "locations: %s\n", strings.Join(opts.Locations, ", "))
	return nil
}

func (o *output) message(msg string) error {
	if o.format == "json" {
		return o.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(o.w, msg)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
