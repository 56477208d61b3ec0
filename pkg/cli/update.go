package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is the running version, overridden at build time with
// -ldflags "-X github.com/Fepozopo/bilateral/pkg/cli.Version=1.2.3".
var Version = "0.1.0"

const updateRepo = "Fepozopo/bilateral"

// releasesURL is the GitHub releases endpoint; %s is owner/repo.
var releasesURL = "https://api.github.com/repos/%s/releases"

// semverRe finds a semver substring like v1.2.3 or 1.2.3 inside a tag name.
var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// pickAsset returns the download URL best matching the running platform,
// falling back to the first asset.
func pickAsset(assets []releaseAsset) string {
	fallback := ""
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, runtime.GOOS) && strings.Contains(name, runtime.GOARCH) {
			return a.BrowserDownloadURL
		}
		if fallback == "" {
			fallback = a.BrowserDownloadURL
		}
	}
	return fallback
}

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// detectLatestFallback queries the GitHub Releases API and returns the
// highest published, non-prerelease release whose tag (or name) carries a
// semver. It returns (nil, false, nil) when nothing qualifies.
func detectLatestFallback(client *http.Client, repo string) (*selfupdate.Release, bool, error) {
	resp, err := client.Get(fmt.Sprintf(releasesURL, repo))
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []struct {
		TagName    string         `json:"tag_name"`
		Name       string         `json:"name"`
		Draft      bool           `json:"draft"`
		Prerelease bool           `json:"prerelease"`
		Assets     []releaseAsset `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var candidates []selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
			if match == "" {
				continue
			}
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		candidates = append(candidates, selfupdate.Release{
			Version:  v,
			AssetURL: pickAsset(r.Assets),
		})
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version.GT(candidates[j].Version)
	})
	return &candidates[0], true, nil
}

// CheckForUpdates compares Version with the latest GitHub release and, after
// confirmation read from in, replaces the running executable.
func CheckForUpdates(in io.Reader, out io.Writer) error {
	client := &http.Client{Timeout: 10 * time.Second}
	latest, found, err := detectLatestFallback(client, updateRepo)
	fmt.Fprintf(out, "Current version: %s\n", Version)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(out, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		fmt.Fprintf(out, "warning: could not parse current version %q: %v\n", Version, perr)
	} else if latest.Version.LTE(current) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		fmt.Fprintln(out, "Please visit the project releases page to download the new version.")
		return nil
	}

	answer, err := promptLine(in, out, fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	answer = strings.ToLower(answer)
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Fprintln(out, "Updating...")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to version %s.\n", latest.Version)
	return nil
}
