package viewer

import (
	"regexp"
	"strings"
)

// loaderMarker makes runtime injection idempotent: a document that already
// carries the marker is left alone.
const loaderMarker = "KAROSPACE_LOADER_RUNTIME"

// loaderScript is the client-side bootstrap. It exposes the loader contract
// (getManifestSync/Async, getSync/Async) on window.__KAROSPACE_DATA_LOADER__
// and mirrors every reconstructed value into window.__KAROSPACE_DATA__ for
// external scripts that read the global cache directly.
const loaderScript = `<script>
/* KAROSPACE_LOADER_RUNTIME */
(function () {
  if (window.__KAROSPACE_DATA_LOADER__) {
    return;
  }

  function getTextSync(path) {
    var req = new XMLHttpRequest();
    req.open("GET", path, false);
    req.send(null);
    if (req.status < 200 || req.status >= 300) {
      throw new Error("Failed to load " + path + " (status " + req.status + ")");
    }
    return req.responseText;
  }

  function buildIndex(manifest) {
    var index = {};
    var blobs = manifest.blobs || [];
    for (var i = 0; i < blobs.length; i += 1) {
      index[blobs[i].key] = blobs[i];
    }
    return index;
  }

  function reconstruct(blob, chunkTexts) {
    if (blob.strategy === "array_slices") {
      var merged = [];
      for (var i = 0; i < chunkTexts.length; i += 1) {
        var arr = JSON.parse(chunkTexts[i]);
        if (!Array.isArray(arr)) {
          throw new Error("Expected array chunk for " + blob.key);
        }
        merged = merged.concat(arr);
      }
      return merged;
    }
    if (blob.strategy === "text_concat") {
      return JSON.parse(chunkTexts.join(""));
    }
    throw new Error("Unsupported chunk strategy: " + blob.strategy);
  }

  var loader = {
    _manifest: null,
    _manifestIndex: null,
    _manifestPromise: null,
    _cache: {},
    _blobPromises: {},

    getManifestSync: function () {
      if (!this._manifest) {
        this._manifest = JSON.parse(getTextSync("./manifest.json"));
        this._manifestIndex = buildIndex(this._manifest);
      }
      return this._manifest;
    },

    getManifestAsync: function () {
      if (this._manifest) {
        return Promise.resolve(this._manifest);
      }
      if (this._manifestPromise) {
        return this._manifestPromise;
      }

      var self = this;
      this._manifestPromise = fetch("./manifest.json")
        .then(function (response) {
          if (!response.ok) {
            throw new Error("Failed to load manifest.json (" + response.status + ")");
          }
          return response.json();
        })
        .then(function (manifest) {
          self._manifest = manifest;
          self._manifestIndex = buildIndex(manifest);
          return manifest;
        });
      return this._manifestPromise;
    },

    getSync: function (key) {
      if (Object.prototype.hasOwnProperty.call(this._cache, key)) {
        return this._cache[key];
      }

      this.getManifestSync();
      var blob = this._manifestIndex[key];
      if (!blob) {
        throw new Error("Blob not found in manifest: " + key);
      }

      var chunks = blob.chunks || [];
      var texts = [];
      for (var i = 0; i < chunks.length; i += 1) {
        texts.push(getTextSync("./" + chunks[i].path));
      }

      var value = reconstruct(blob, texts);
      this._cache[key] = value;
      window.__KAROSPACE_DATA__ = window.__KAROSPACE_DATA__ || {};
      window.__KAROSPACE_DATA__[key] = value;
      return value;
    },

    getAsync: function (key) {
      if (Object.prototype.hasOwnProperty.call(this._cache, key)) {
        return Promise.resolve(this._cache[key]);
      }
      if (this._blobPromises[key]) {
        return this._blobPromises[key];
      }

      var self = this;
      this._blobPromises[key] = this.getManifestAsync().then(function () {
        var blob = self._manifestIndex[key];
        if (!blob) {
          throw new Error("Blob not found in manifest: " + key);
        }
        var chunks = blob.chunks || [];
        return Promise.all(
          chunks.map(function (chunk) {
            return fetch("./" + chunk.path).then(function (response) {
              if (!response.ok) {
                throw new Error("Failed to load " + chunk.path + " (" + response.status + ")");
              }
              return response.text();
            });
          })
        ).then(function (chunkTexts) {
          var value = reconstruct(blob, chunkTexts);
          self._cache[key] = value;
          window.__KAROSPACE_DATA__ = window.__KAROSPACE_DATA__ || {};
          window.__KAROSPACE_DATA__[key] = value;
          return value;
        });
      });
      return this._blobPromises[key];
    }
  };

  window.__KAROSPACE_DATA__ = window.__KAROSPACE_DATA__ || {};
  window.__KAROSPACE_DATA_LOADER__ = loader;

  if (typeof fetch === "function") {
    loader.getManifestAsync().catch(function () {});
  }
})();
</script>`

var (
	headOpenRe = regexp.MustCompile(`(?is)<head\b[^>]*>`)
	htmlOpenRe = regexp.MustCompile(`(?is)<html\b[^>]*>`)
)

// EnsureLoaderRuntime injects the bootstrap once: right after the opening
// <head> tag, after <html> if there is no head, or prepended when neither
// exists.
func EnsureLoaderRuntime(html string) string {
	if strings.Contains(html, loaderMarker) {
		return html
	}

	if loc := headOpenRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + "\n" + loaderScript + "\n" + html[loc[1]:]
	}
	if loc := htmlOpenRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + "\n" + loaderScript + "\n" + html[loc[1]:]
	}
	return loaderScript + "\n" + html
}
