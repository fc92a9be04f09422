package ros

import (
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.viam.com/fab/logging"
	"go.viam.com/fab/utils"
)

// parameters and services the robot description is read from.
const (
	RobotDescriptionParam         = "/robot_description"
	RobotDescriptionSemanticParam = "/robot_description_semantic"
	getFileService                = "/file_server/get_file"
	getFileServiceType            = "file_server/GetBinaryFile"
	packageScheme                 = "package://"

	maxConcurrentDownloads = 4
)

// FileServerLoader loads the robot description and its resource files from a running ROS system.
// Resources are cached in LocalDir when it is set.
type FileServerLoader struct {
	client   *Client
	localDir string
	logger   logging.Logger
}

// DefaultRobotDescriptionDir is the default cache directory of FileServerLoader. It lives in the
// user cache dir, or in ~/.cache when the platform has none.
func DefaultRobotDescriptionDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(utils.PlatformHomeDir(), ".cache")
	}
	return filepath.Join(base, "fab", "robot_description")
}

// NewFileServerLoader returns a loader that caches files under localDir. An empty localDir
// disables caching.
func NewFileServerLoader(client *Client, localDir string, logger logging.Logger) *FileServerLoader {
	return &FileServerLoader{client: client, localDir: localDir, logger: logger}
}

func (l *FileServerLoader) loadStringParam(ctx context.Context, name string) (string, error) {
	var value string
	if err := l.client.GetParamInto(ctx, name, &value); err != nil {
		return "", err
	}
	return value, nil
}

// LoadURDF returns the URDF text of the robot description.
func (l *FileServerLoader) LoadURDF(ctx context.Context) (string, error) {
	return l.loadStringParam(ctx, RobotDescriptionParam)
}

// LoadSRDF returns the SRDF text of the semantic robot description.
func (l *FileServerLoader) LoadSRDF(ctx context.Context) (string, error) {
	return l.loadStringParam(ctx, RobotDescriptionSemanticParam)
}

// LoadFile returns the contents of a package:// resource, reading it from the cache if present.
func (l *FileServerLoader) LoadFile(ctx context.Context, uri string) ([]byte, error) {
	local, err := l.cachePath(uri)
	if err != nil {
		return nil, err
	}
	if local != "" {
		//nolint:gosec
		if data, err := os.ReadFile(local); err == nil {
			l.logger.Debugw("loaded resource from cache", "uri", uri, "path", local)
			return data, nil
		}
	}

	var resp struct {
		Value []byte `json:"value"`
	}
	if err := l.client.CallService(ctx, getFileService, getFileServiceType, map[string]string{"name": uri}, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", uri)
	}
	if local != "" {
		if err := writeFile(local, resp.Value); err != nil {
			return nil, err
		}
		l.logger.Infow("saved resource", "uri", uri, "path", local)
	}
	return resp.Value, nil
}

func (l *FileServerLoader) cachePath(uri string) (string, error) {
	if !strings.HasPrefix(uri, packageScheme) {
		return "", errors.Errorf("unsupported resource url %q, expected %s", uri, packageScheme)
	}
	if l.localDir == "" {
		return "", nil
	}
	return utils.SafeJoinDir(l.localDir, strings.TrimPrefix(uri, packageScheme))
}

// ImportRobotDescription stores the URDF and every mesh it references in the cache directory and
// returns the robot name.
func (l *FileServerLoader) ImportRobotDescription(ctx context.Context) (string, error) {
	if l.localDir == "" {
		return "", errors.New("cannot import robot description without a local directory")
	}
	urdf, err := l.LoadURDF(ctx)
	if err != nil {
		return "", err
	}
	name, uris, err := RobotNameAndMeshURIs(urdf)
	if err != nil {
		return "", err
	}
	robotDir, err := utils.SafeJoinDir(l.localDir, name)
	if err != nil {
		return "", err
	}
	robotLoader := NewFileServerLoader(l.client, robotDir, l.logger)
	var downloaded atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDownloads)
	for _, uri := range lo.Uniq(uris) {
		group.Go(func() error {
			data, err := robotLoader.LoadFile(groupCtx, uri)
			downloaded.Add(int64(len(data)))
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(robotDir, "robot_description.urdf"), []byte(urdf)); err != nil {
		return "", err
	}
	l.logger.Infow("imported robot description",
		"robot", name,
		"meshes", len(uris),
		"size", units.HumanSize(float64(downloaded.Load()+int64(len(urdf)))),
		"dir", robotDir)
	return name, nil
}

// RobotNameAndMeshURIs returns the robot name of a URDF document and the file names of its meshes,
// without interpreting the kinematics.
func RobotNameAndMeshURIs(urdf string) (string, []string, error) {
	dec := xml.NewDecoder(strings.NewReader(urdf))
	var name string
	var uris []string
	seen := map[string]bool{}
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", nil, errors.Wrap(err, "malformed robot description")
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "robot":
			if name == "" {
				name = attr(start, "name")
			}
		case "mesh":
			if fn := attr(start, "filename"); fn != "" && !seen[fn] {
				seen[fn] = true
				uris = append(uris, fn)
			}
		}
	}
	if name == "" {
		return "", nil, errors.New("robot description has no robot name")
	}
	return name, uris, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o600), "failed to write %s", path)
}
