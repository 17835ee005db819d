package blog

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/reelnotes/reelnotes-server/internal/util"
)

// disambiguatorLen is the number of hex characters appended on a slug collision.
const disambiguatorLen = 6

// GenerateSlug derives a post slug as "{title}-{year}-{username}".
// Title and username are cleaned with util.Slugify; releaseYear is used
// verbatim. Segments that clean to nothing are dropped, so a title of "!!!"
// gives "2024-bob" rather than "-2024-bob".
func GenerateSlug(movieTitle, releaseYear, username string) string {
	return util.JoinSlug(util.Slugify(movieTitle), releaseYear, util.Slugify(username))
}

// DisambiguateSlug appends a short, stable suffix derived from userID.
// Used when two users whose usernames clean to the same slug review the same movie.
func DisambiguateSlug(slug, userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return util.JoinSlug(slug, hex.EncodeToString(sum[:])[:disambiguatorLen])
}
