package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/rlgo/engine/core"
)

type AssetType int

const (
	ASSET_TYPE_NONE AssetType = iota
	ASSET_TYPE_CONFIG
	ASSET_TYPE_FONT
	ASSET_TYPE_IMAGE
	ASSET_TYPE_SHADER
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// AssetManager indexes the files of the asset directories and watches them
// for changes. A write to a watched config file fires EVENT_CODE_CONFIG_RELOADED
// from the watcher goroutine.
type AssetManager struct {
	assets  map[string]AssetInfo
	configs map[string]struct{}

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		configs:  make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	am.wg.Add(1)
	go am.start()
	return am, nil
}

// Initialize indexes assetsDir and its sub-directories and starts watching them.
func (am *AssetManager) Initialize(assetsDir string) error {
	return am.addRecursive(assetsDir)
}

// WatchConfig reports writes to the config file at path. The parent directory
// is watched since editors often replace files instead of writing them.
func (am *AssetManager) WatchConfig(path string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	am.mutex.Lock()
	am.configs[abs] = struct{}{}
	am.mutex.Unlock()

	am.handleFileEvent(abs)
	return am.fsnotify.Add(filepath.Dir(abs))
}

// addRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

// Unwatch stops watching the named directory and all sub-directories and
// drops their files from the index.
func (am *AssetManager) Unwatch(name string) error {
	return am.watchRecursive(name, true)
}

// Lookup returns the index entry of path.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return AssetInfo{}, false
	}
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[abs]
	return info, ok
}

// Assets returns the indexed files of the given type.
func (am *AssetManager) Assets(assetType AssetType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []AssetInfo
	for _, info := range am.assets {
		if info.Type == assetType {
			out = append(out, info)
		}
	}
	return out
}

// LoadAsset reads an indexed file from disk.
func (am *AssetManager) LoadAsset(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	am.mutex.RLock()
	asset, exists := am.assets[abs]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	asset.LastLoaded = time.Now()
	am.mutex.Lock()
	am.assets[abs] = asset
	am.mutex.Unlock()
	return data, nil
}

// Shutdown stops the watcher and waits for its goroutine.
func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	am.wg.Wait()
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
				am.notifyConfig(e.Name)
			}
			// Can't stat a deleted path, drop it from the index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("ASSETS: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notifyConfig(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	am.mutex.RLock()
	_, watched := am.configs[abs]
	am.mutex.RUnlock()
	if !watched {
		return
	}

	core.LogInfo("ASSETS: Config file %s changed", abs)
	ctx := core.EventContext{}
	ctx.Data.C[0] = abs
	core.EventFire(core.EVENT_CODE_CONFIG_RELOADED, am, ctx)
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		if unWatch {
			am.removeAsset(walkPath)
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == ASSET_TYPE_NONE {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info, ok := am.assets[abs]
	if !ok {
		info = AssetInfo{Path: abs, Type: assetType}
	}
	am.assets[abs] = info
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, abs)
}

func determineAssetType(path string) AssetType {
	switch filepath.Ext(path) {
	case ".toml":
		return ASSET_TYPE_CONFIG
	case ".fnt":
		return ASSET_TYPE_FONT
	case ".png", ".bmp":
		return ASSET_TYPE_IMAGE
	case ".vs", ".fs", ".glsl":
		return ASSET_TYPE_SHADER
	default:
		return ASSET_TYPE_NONE
	}
}
