package detail

import (
	"strconv"
	"strings"
)

// DetailURL is the canonical, shareable address of a panel page. The same
// string is encoded in both QR renderings and handed to the share action.
func DetailURL(origin string, id int) string {
	return strings.TrimRight(origin, "/") + "/panel/" + strconv.Itoa(id)
}
