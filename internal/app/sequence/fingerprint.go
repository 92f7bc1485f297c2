package sequence

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"planverse/internal/domain/plan"
)

// fingerprint derives the cache key for a request. Besides the initial and
// goal states it digests each action's full definition, not just its ID, so
// two libraries that reuse an ID with different effects never collide. The
// algorithm and objective are part of the key because they change the answer.
func fingerprint(req Request) string {
	digests := make([]string, 0, len(req.Actions))
	for _, a := range req.Actions {
		digests = append(digests, actionDigest(a))
	}
	sort.Strings(digests)

	h := sha256.New()
	h.Write([]byte(req.InitialState.Fingerprint()))
	h.Write([]byte{'|'})
	h.Write([]byte(req.GoalState.Fingerprint()))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(digests, ",")))
	h.Write([]byte{'|'})
	h.Write([]byte(req.Algorithm))
	h.Write([]byte{'|'})
	h.Write([]byte(req.Heuristic))
	h.Write([]byte{'|'})
	h.Write([]byte(req.Objective))
	return hex.EncodeToString(h.Sum(nil))
}

func actionDigest(a plan.Action) string {
	var b strings.Builder
	b.WriteString(a.ID)
	b.WriteByte(':')
	for _, c := range a.Preconditions {
		b.WriteString(c.Fact)
		b.WriteByte('=')
		b.WriteString(c.Value.Canonical())
		b.WriteByte('&')
	}
	b.WriteByte(':')
	for _, c := range a.Effects {
		b.WriteString(c.Fact)
		b.WriteByte('=')
		b.WriteString(c.Value.Canonical())
		b.WriteByte('&')
	}
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(a.Cost, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(a.Duration, 'g', -1, 64))
	return b.String()
}
