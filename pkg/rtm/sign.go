package rtm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign derives the api_sig for a set of request parameters, as mandated
// by the RTM authentication scheme: sort parameters by key, join all
// key+value pairs with no separator, prepend the shared secret and MD5
// the result. The algorithm must stay bit-exact; changing the sort
// order, adding separators or switching the hash breaks authentication.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(secret)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
