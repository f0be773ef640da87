package audio

import "github.com/bogem/id3v2"

// StampMP3 writes the submitted metadata into the file's ID3 tags so
// the stored asset stays self-describing even outside the database.
func StampMP3(path string, meta map[string]string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if v := meta["TITLE"]; v != "" {
		tag.SetTitle(v)
	}
	if v := meta["ARTIST"]; v != "" {
		tag.SetArtist(v)
	}
	if v := meta["GENRE"]; v != "" {
		tag.SetGenre(v)
	}

	return tag.Save()
}
