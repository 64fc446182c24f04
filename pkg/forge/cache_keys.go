package forge

import "fmt"

func pullKey(number int) string {
	return fmt.Sprintf("pulls/%d", number)
}

func issueKey(number int) string {
	return fmt.Sprintf("issues/%d", number)
}

func treeKey(branch, path string, recursive bool) string {
	r := 0
	if recursive {
		r = 1
	}
	return fmt.Sprintf("%s%s?recursive=%d", treePrefix(branch), path, r)
}

// treePrefix matches every cached tree of branch.
func treePrefix(branch string) string {
	return "git/trees/" + branch + ":"
}
