package pipeline

import "github.com/dgallion1/playfmt/internal/doctree"

const exampleScript = `SETTING: A living room, present day.

(SARAH sits reading. MICHAEL enters)

SARAH
(looking up from her book) Did you hear that?

MICHAEL
Hear what?

SARAH
(standing) That sound. Like someone crying.

MICHAEL
(dismissively) It's just the wind, Sarah.

SARAH
No, it's more than that. (walks to window) There's someone out there.

MICHAEL
You're imagining things again.`

// Example returns a short demonstration script and metadata to go with it.
func Example() (doctree.Metadata, string) {
	return doctree.Metadata{
		Title:  "GAME TALK",
		Author: "Lindsey Salatka",
		Scene:  "Scene One of One",
	}, exampleScript
}
