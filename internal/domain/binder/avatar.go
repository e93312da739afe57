package binder

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"html"
)

// avatarPalette holds the circle backgrounds; the name picks one.
var avatarPalette = []string{
	"#6C5CE7", "#0984E3", "#00B894", "#E17055",
	"#D63031", "#E84393", "#2D3436", "#FDCB6E",
}

const avatarSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 200 200">` +
	`<circle cx="100" cy="100" r="100" fill="%s"/>` +
	`<text x="50%%" y="50%%" dy=".35em" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-size="80" font-weight="600" fill="#FFFFFF">%s</text>` +
	`</svg>`

// AvatarSVG renders a circular avatar carrying the initials of name.
func AvatarSVG(name string) string {
	return fmt.Sprintf(avatarSVG, avatarColor(name), html.EscapeString(Initials(name)))
}

// AvatarDataURI wraps AvatarSVG in a data URI usable as an img src.
func AvatarDataURI(name string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(AvatarSVG(name)))
}

func avatarColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}
