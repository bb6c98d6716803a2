package generator

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// FileSystemActivity generates OCSF File System Activity (1001) events.
type FileSystemActivity struct {
	pools *AttributePools

	actions     []namedID
	paths       []string
	extensions  []string
	permissions []string
	fileGroups  []string
}

// NewFileSystemActivity creates a File System Activity generator.
func NewFileSystemActivity(pools *AttributePools) *FileSystemActivity {
	return &FileSystemActivity{
		pools: pools,
		actions: []namedID{
			{"create", 1}, {"modify", 2}, {"delete", 3}, {"rename", 4},
			{"chmod", 5}, {"read", 6}, {"link", 7},
		},
		paths: []string{
			"/home/users/documents", "/var/www/html", "/tmp", "/etc",
			"/var/jenkins/workspace", "/var/lib/mysql/database",
			"/usr/local/bin", "/var/log/nginx", "/var/lib/elasticsearch",
			"/backup/daily",
		},
		extensions:  []string{".pdf", ".html", ".json", ".log", ".jar", ".sh", ".docx", ".tar.gz", ".conf", ".txt"},
		permissions: []string{"644", "600", "755", "640"},
		fileGroups:  []string{"users", "www-data", "admin", "root"},
	}
}

func (g *FileSystemActivity) Class() ocsf.Class { return ocsf.FileSystemActivity }

type fileOwner struct {
	Name string `json:"name"`
	UID  int    `json:"uid"`
}

type fileGroup struct {
	Name string `json:"name"`
	GID  int    `json:"gid"`
}

type fileObject struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int       `json:"size"`
	Permissions string    `json:"permissions"`
	Owner       fileOwner `json:"owner"`
	Group       fileGroup `json:"group"`
	Type        string    `json:"type"`
	NewPath     string    `json:"new_path,omitempty"`
	LinkPath    string    `json:"link_path,omitempty"`
}

type fsActivityEvent struct {
	ocsf.BaseEvent

	File    fileObject   `json:"file"`
	Process ocsf.Process `json:"process"`
	Actor   ocsf.Actor   `json:"actor"`
}

// nameID derives a stable numeric id from a name, standing in for a real
// uid/gid lookup.
func nameID(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % 65535)
}

func (g *FileSystemActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	action := pick(rng, g.actions)
	user := pick(rng, g.pools.Users)
	base := pick(rng, g.paths)
	ext := pick(rng, g.extensions)
	group := pick(rng, g.fileGroups)
	path := fmt.Sprintf("%s/file_%d%s", base, 1000+rng.IntN(9000), ext)

	fileType := "unknown"
	if i := strings.LastIndex(path, "."); i >= 0 {
		fileType = path[i+1:]
	}

	ev := &fsActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.FileSystemActivity.UID,
			ClassName:    ocsf.FileSystemActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   action.id,
			ActivityName: strings.ToUpper(action.name),
			Status:       "Success",
			StatusID:     1,
			Severity:     "Informational",
			SeverityID:   1,
			Metadata:     ocsf.NewMetadata("File System Monitor", ocsf.Timestamp(ts)),
		},
		File: fileObject{
			Name:        path[strings.LastIndex(path, "/")+1:],
			Path:        path,
			Size:        1024 + rng.IntN(10484737), // 1KB to 10MB
			Permissions: pick(rng, g.permissions),
			Owner:       fileOwner{Name: user, UID: nameID(user)},
			Group:       fileGroup{Name: group, GID: nameID(group)},
			Type:        fileType,
		},
		Process: ocsf.Process{
			PID:  1000 + rng.IntN(9000),
			Name: "fs_monitor",
			Path: "/usr/sbin/fs_monitor",
		},
		Actor: ocsf.Actor{
			User: &ocsf.User{Name: user, UID: fmt.Sprintf("%d", nameID(user))},
		},
	}

	switch action.name {
	case "rename":
		ev.File.NewPath = fmt.Sprintf("%s/file_%d%s", base, 1000+rng.IntN(9000), ext)
	case "link":
		ev.File.LinkPath = fmt.Sprintf("/etc/alternatives/file_%d", 1000+rng.IntN(9000))
	}

	return ev
}
