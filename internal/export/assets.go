package export

// jsInjectionMarker is replaced with the bootstrap script when the
// viewer page is written.
const jsInjectionMarker = "<!-- ### INSERT JS CODE HERE ### -->"

// viewerPageTemplate is the catalog viewer page. The page_metadata
// element is filled with the serialized current-dataset record after
// every successful load, for crawlers and other out-of-band consumers.
const viewerPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Dataset catalog</title>
  <link rel="stylesheet" href="catalog.css">
</head>
<body>
  <div id="alerts"></div>
  <main>
    <h1 id="ds_name"></h1>
    <div id="ds_description"></div>
    <pre id="ds_record"></pre>
  </main>
  <script id="page_metadata" type="application/ld+json"></script>
  <script>
<!-- ### INSERT JS CODE HERE ### -->
  </script>
</body>
</html>
`

// viewerCSS styles the catalog page.
const viewerCSS = `body {
  font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
  margin: 0 auto;
  max-width: 60rem;
  padding: 1rem;
  color: #24292e;
}
#alerts .alert {
  border-radius: 4px;
  margin-bottom: 0.5rem;
  padding: 0.5rem 1rem;
}
#alerts .alert-error {
  background: #ffeef0;
  border: 1px solid #d73a49;
}
#alerts .alert-info {
  background: #f1f8ff;
  border: 1px solid #0366d6;
}
#ds_record {
  background: #f6f8fa;
  border-radius: 4px;
  overflow-x: auto;
  padding: 1rem;
}
`

// viewerJS is the browser-side twin of internal/query and
// internal/catalog: it parses the page query, loads the inventory and
// the requested record, and renders state changes into the page.
const viewerJS = `'use strict';

function parseQuery(raw) {
  var params = {};
  if (!raw) { return params; }
  raw.split('&').forEach(function (entry) {
    var eq = entry.indexOf('=');
    var name = eq === -1 ? entry : entry.slice(0, eq);
    var value = eq === -1 ? undefined : decodeURIComponent(entry.slice(eq + 1));
    params[decodeURIComponent(name).toLowerCase()] = value;
  });
  return params;
}

function newState() {
  return { dsinfo: {}, coinfo: {}, ds_by_path: {}, alerts: [] };
}

function render(state) {
  var alerts = document.getElementById('alerts');
  alerts.innerHTML = '';
  state.alerts.forEach(function (alert) {
    var div = document.createElement('div');
    div.className = 'alert alert-' + alert.type;
    div.textContent = alert.text;
    alerts.appendChild(div);
  });
  document.getElementById('ds_name').textContent = state.dsinfo.name || '';
  document.getElementById('ds_description').textContent = state.dsinfo.description || '';
  document.getElementById('ds_record').textContent =
    Object.keys(state.dsinfo).length ? JSON.stringify(state.dsinfo, null, 2) : '';
}

function addAlert(state, type, text) {
  state.alerts.push({ type: type, text: text });
  render(state);
}

function fetchJSON(url) {
  return fetch(url).then(function (resp) {
    if (!resp.ok) { throw new Error('unexpected status ' + resp.status); }
    return resp.json();
  });
}

function loadObject(state, loc, slot) {
  fetchJSON('objs/' + loc + '?json=yes').then(function (record) {
    state[slot] = record;
    if (slot === 'dsinfo') {
      document.getElementById('page_metadata').textContent = JSON.stringify(record);
    }
    render(state);
  }).catch(function (err) {
    console.error('failed to load metadata for ' + loc, err);
    addAlert(state, 'error', 'failed to load metadata for "' + loc + '": ' + err);
  });
}

function bootstrap() {
  var state = newState();
  var params = parseQuery(window.location.search.replace(/^\?/, ''));
  if ('id' in params) {
    console.log('id-based lookup requested, not implemented');
    return;
  }
  var path = params.p === undefined ? '.' : params.p;
  fetchJSON('by_path.json?json=yes').then(function (inventory) {
    state.ds_by_path = inventory;
    render(state);
    if (!(path in inventory)) {
      addAlert(state, 'error', 'no dataset found at path "' + path + '"');
      return;
    }
    loadObject(state, inventory[path], 'dsinfo');
  }).catch(function (err) {
    addAlert(state, 'error', 'failed to load dataset inventory: ' + err);
  });
}

document.addEventListener('DOMContentLoaded', bootstrap);
`
