package adminclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// SampleUser is one of the records the check run inserts.
type SampleUser struct {
	Name  string
	Email string
}

// SampleUsers are added at the start of every check run.
var SampleUsers = []SampleUser{
	{Name: "John Lennon", Email: "john@beatles.com"},
	{Name: "Paul McCartney", Email: "paul@beatles.com"},
	{Name: "George Harrison", Email: "george@beatles.com"},
	{Name: "Ringo Starr", Email: "ringo@beatles.com"},
	{Name: "David Gilmour", Email: "david@pinkfloyd.com"},
	{Name: "Roger Waters", Email: "roger@pinkfloyd.com"},
}

const rule = "============================================================"

// RunCheck exercises each admin endpoint in turn against a live server and
// reports to w. A failing step is reported and the run continues; the error
// is non-nil only when the final count cannot be read.
func RunCheck(ctx context.Context, c *Client, w io.Writer) (int, error) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ADMIN DASHBOARD - FEATURE CHECK")
	fmt.Fprintln(w, rule)

	checkAdd(ctx, c, w)
	checkList(ctx, c, w)
	checkUpdate(ctx, c, w)
	checkExport(ctx, c, w)
	checkBulkDelete(ctx, c, w)
	checkSingleDelete(ctx, c, w)

	fmt.Fprintln(w, "\n"+rule)
	res, err := c.List(ctx, "", "")
	if err != nil {
		fmt.Fprintf(w, "✗ ERROR: %v\n", err)
		return 0, err
	}
	fmt.Fprintf(w, "FINAL USER COUNT: %d\n", res.Count)
	fmt.Fprintln(w, rule)
	return res.Count, nil
}

func checkAdd(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== Add User ===")
	for _, u := range SampleUsers {
		if _, err := c.Add(ctx, u.Name, u.Email); err != nil {
			fmt.Fprintf(w, "✗ Failed to add: %s (%v)\n", u.Name, err)
			continue
		}
		fmt.Fprintf(w, "✓ Added: %s\n", u.Name)
	}
}

func checkList(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== List Users & Sorting ===")

	if res, err := c.List(ctx, "", ""); err != nil {
		fmt.Fprintf(w, "✗ Default list failed: %v\n", err)
	} else {
		fmt.Fprintf(w, "✓ Found %d users (default sort)\n", res.Count)
	}

	if res, err := c.List(ctx, "name", "asc"); err != nil {
		fmt.Fprintf(w, "✗ Sort by name failed: %v\n", err)
	} else {
		names := make([]string, 0, len(res.Users))
		for _, u := range res.Users {
			names = append(names, u.Name)
		}
		fmt.Fprintf(w, "✓ Sorted by name (asc): %s\n", preview(names))
	}

	if res, err := c.List(ctx, "email", "desc"); err != nil {
		fmt.Fprintf(w, "✗ Sort by email failed: %v\n", err)
	} else {
		emails := make([]string, 0, len(res.Users))
		for _, u := range res.Users {
			emails = append(emails, u.Email)
		}
		fmt.Fprintf(w, "✓ Sorted by email (desc): %s\n", preview(emails))
	}
}

func checkUpdate(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== Update User ===")

	res, err := c.List(ctx, "", "")
	if err != nil || len(res.Users) == 0 {
		fmt.Fprintln(w, "✗ No users to update")
		return
	}

	first := res.Users[0]
	newName := first.Name + " (Updated)"
	if _, err := c.Update(ctx, first.ID, newName, first.Email); err != nil {
		fmt.Fprintf(w, "✗ Failed to update user #%d: %v\n", first.ID, err)
		return
	}
	fmt.Fprintf(w, "✓ Updated user #%d: %s → %s\n", first.ID, first.Name, newName)
}

func checkExport(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== CSV Export ===")

	body, err := c.Export(ctx)
	if err != nil {
		fmt.Fprintf(w, "✗ CSV export failed: %v\n", err)
		return
	}

	var lines []string
	for _, l := range strings.Split(string(bytes.TrimRight(body, "\r\n")), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimRight(l, "\r"))
		}
	}
	header := ""
	if len(lines) > 0 {
		header = lines[0]
	}
	fmt.Fprintln(w, "✓ CSV export successful")
	fmt.Fprintf(w, "  Headers: %s\n", header)
	fmt.Fprintf(w, "  Total rows: %d\n", len(lines))
}

func checkBulkDelete(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== Bulk Delete ===")

	res, err := c.List(ctx, "", "")
	if err != nil || len(res.Users) < 2 {
		fmt.Fprintln(w, "✗ Need at least 2 users to test bulk delete")
		return
	}

	n := len(res.Users)
	ids := []uint{res.Users[n-1].ID, res.Users[n-2].ID}
	if _, err := c.BulkDelete(ctx, ids); err != nil {
		fmt.Fprintf(w, "✗ Failed to bulk delete: %v\n", err)
		return
	}
	fmt.Fprintf(w, "✓ Bulk deleted %d users: %v\n", len(ids), ids)
}

func checkSingleDelete(ctx context.Context, c *Client, w io.Writer) {
	fmt.Fprintln(w, "\n=== Single Delete ===")

	res, err := c.List(ctx, "", "")
	if err != nil || len(res.Users) == 0 {
		fmt.Fprintln(w, "✗ No users to delete")
		return
	}

	last := res.Users[len(res.Users)-1]
	if _, err := c.Delete(ctx, last.ID); err != nil {
		fmt.Fprintf(w, "✗ Failed to delete user #%d: %v\n", last.ID, err)
		return
	}
	fmt.Fprintf(w, "✓ Deleted user #%d: %s\n", last.ID, last.Name)
}

// preview shows the first three values.
func preview(vals []string) string {
	if len(vals) > 3 {
		return fmt.Sprintf("%q...", vals[:3])
	}
	return fmt.Sprintf("%q", vals)
}
