package audio

import (
	"fmt"
	"strconv"

	id3v2 "github.com/bogem/id3v2/v2"
)

// Tags holds the descriptive metadata written to a published episode.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   string
	// Track is the episode number; zero omits the frame.
	Track int
	// Docket is written as a comment frame when present.
	Docket string
}

// WriteTags writes ID3v2 tags to the MP3 at path. Any failure is reported as
// ErrTagFailed; the file itself is still a playable episode without tags.
func WriteTags(path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrTagFailed, path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if tags.Genre != "" {
		tag.SetGenre(tags.Genre)
	}
	if tags.Year != "" {
		tag.AddTextFrame(tag.CommonID("Year"), tag.DefaultEncoding(), tags.Year)
	}
	if tags.Track > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"),
			tag.DefaultEncoding(), strconv.Itoa(tags.Track))
	}
	if tags.Docket != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "Docket",
			Text:        tags.Docket,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrTagFailed, path, err)
	}
	return nil
}
