package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
)

// ViewerPage is the data for the viewer shell page
type ViewerPage struct {
	Title        string
	Theme        string
	Language     string
	Version      string
	Extensions   []string
	WebSocketURL string
}

// Accept returns the file input accept attribute value
func (p ViewerPage) Accept() string {
	return strings.Join(p.Extensions, ",")
}

// TemplateRenderer renders the viewer shell with Go templates. Slides are not
// part of the page: they are pushed over the WebSocket as view events.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer creates a new template-based renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("viewer").Parse(viewerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing viewer template: %w", err)
	}

	return &TemplateRenderer{templates: tmpl}, nil
}

// RenderViewer renders the viewer page
func (r *TemplateRenderer) RenderViewer(ctx context.Context, page ViewerPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("executing viewer template: %w", err)
	}
	return buf.Bytes(), nil
}

const viewerTemplate = `<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="marpview {{.Version}}">
    <title>{{.Title}}</title>
    <style>
        * { box-sizing: border-box; }
        body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f3f4f6; color: #111827; }
        body[data-theme="dark"] { background: #111827; color: #f3f4f6; }
        .state { display: none; min-height: 100vh; }
        .state.active { display: flex; flex-direction: column; align-items: center; justify-content: center; }
        .drop-zone { border: 3px dashed #9ca3af; border-radius: 12px; padding: 4em; text-align: center; cursor: pointer; }
        .drop-zone.drag-over { border-color: #2563eb; background: rgba(37, 99, 235, 0.08); }
        .slide-content { width: 100%; display: flex; justify-content: center; padding: 1em; touch-action: pan-y; }
        .slide-content section { box-shadow: 0 4px 24px rgba(0, 0, 0, 0.15); }
        .controls { display: flex; gap: 0.5em; align-items: center; padding: 1em; }
        .controls button { padding: 0.5em 1em; font-size: 1em; }
        .controls button:disabled { opacity: 0.4; cursor: default; }
        .spinner { width: 48px; height: 48px; border: 5px solid #d1d5db; border-top-color: #2563eb; border-radius: 50%; animation: spin 1s linear infinite; }
        @keyframes spin { to { transform: rotate(360deg); } }
        .error-message { color: #b91c1c; max-width: 40em; text-align: center; }
    </style>
    <style id="marp-custom-styles"></style>
</head>
<body data-theme="{{.Theme}}">
    <div id="file-select" class="state active">
        <div id="dropZone" class="drop-zone">
            <p>Drop a Markdown deck here or click to choose a file</p>
            <p><small>{{.Accept}}</small></p>
            <input type="file" id="fileInput" accept="{{.Accept}}" hidden>
        </div>
    </div>

    <div id="processing" class="state">
        <div class="spinner" aria-label="Processing"></div>
    </div>

    <div id="slide-view" class="state">
        <div id="slideContent" class="slide-content"></div>
        <div class="controls">
            <button id="backToSelect" aria-label="Back">&#x2715;</button>
            <button id="firstSlide" data-action="first" aria-label="First slide">&laquo;</button>
            <button id="prevSlide" data-action="previous" aria-label="Previous slide">&lsaquo;</button>
            <span><span id="currentSlide">0</span> / <span id="totalSlides">0</span></span>
            <button id="nextSlide" data-action="next" aria-label="Next slide">&rsaquo;</button>
            <button id="lastSlide" data-action="last" aria-label="Last slide">&raquo;</button>
            <button id="printSlides" aria-label="Print all slides">&#x2399;</button>
            <button id="toggleTheme" data-action="theme" aria-label="Toggle theme">&#x25D0;</button>
        </div>
    </div>

    <div id="error" class="state">
        <p id="errorMessage" class="error-message"></p>
        <button id="retryButton">Retry</button>
    </div>

    <script>
    (function () {
        const STATES = ['file-select', 'processing', 'slide-view', 'error'];
        const NAV_KEYS = ['ArrowLeft', 'ArrowRight', 'ArrowUp', 'ArrowDown', ' ', 'Home', 'End', 'Escape', 'PageUp', 'PageDown'];
        const GLOBAL_KEYS = ['f', 'F', 't', 'T'];
        let state = 'file-select';
        let socket = null;
        let touchStart = null;

        function send(type, data) {
            if (socket && socket.readyState === WebSocket.OPEN) {
                socket.send(JSON.stringify({ type: type, data: data }));
            }
        }

        function showState(next) {
            state = next;
            STATES.forEach(function (s) {
                document.getElementById(s).classList.toggle('active', s === next);
            });
        }

        function apply(view) {
            document.body.dataset.theme = view.theme || 'light';
            if (view.state === 'slide-view') {
                document.getElementById('slideContent').innerHTML = view.slide_html || '';
                document.getElementById('marp-custom-styles').textContent = view.stylesheet || '';
                document.getElementById('currentSlide').textContent = view.current;
                document.getElementById('totalSlides').textContent = view.total;
                document.getElementById('firstSlide').disabled = !view.controls.first;
                document.getElementById('prevSlide').disabled = !view.controls.previous;
                document.getElementById('nextSlide').disabled = !view.controls.next;
                document.getElementById('lastSlide').disabled = !view.controls.last;
                document.title = view.title || document.title;
            }
            if (view.state === 'error') {
                document.getElementById('errorMessage').textContent = view.error || '';
            }
            if (view.state === 'file-select') {
                document.getElementById('fileInput').value = '';
            }
            showState(view.state);
        }

        function toggleFullscreen() {
            if (document.fullscreenElement) {
                document.exitFullscreen();
            } else if (document.documentElement.requestFullscreen) {
                document.documentElement.requestFullscreen();
            }
        }

        function connect() {
            const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            socket = new WebSocket(proto + location.host + '{{.WebSocketURL}}');
            socket.onmessage = function (e) {
                const event = JSON.parse(e.data);
                if (event.type === 'view') {
                    apply(event.data);
                } else if (event.type === 'fullscreen') {
                    toggleFullscreen();
                } else if (event.type === 'print') {
                    window.open('/print', '_blank');
                }
            };
            socket.onclose = function () { setTimeout(connect, 1000); };
        }

        function upload(file) {
            const body = new FormData();
            body.append('file', file, file.name);
            fetch('/api/deck', { method: 'POST', body: body })
                .then(function (r) { return r.json(); })
                .then(function (view) { if (view && view.state) { apply(view); } });
        }

        const dropZone = document.getElementById('dropZone');
        const fileInput = document.getElementById('fileInput');
        fileInput.addEventListener('change', function (e) {
            if (e.target.files[0]) { upload(e.target.files[0]); }
        });
        dropZone.addEventListener('click', function () { fileInput.click(); });
        dropZone.addEventListener('dragover', function (e) { e.preventDefault(); dropZone.classList.add('drag-over'); });
        dropZone.addEventListener('dragleave', function (e) { e.preventDefault(); dropZone.classList.remove('drag-over'); });
        dropZone.addEventListener('drop', function (e) {
            e.preventDefault();
            dropZone.classList.remove('drag-over');
            if (e.dataTransfer.files.length > 0) { upload(e.dataTransfer.files[0]); }
        });

        document.querySelectorAll('[data-action]').forEach(function (button) {
            button.addEventListener('click', function () { send('command', { action: button.dataset.action }); });
        });
        document.getElementById('backToSelect').addEventListener('click', function () { send('command', { action: 'back' }); });
        document.getElementById('retryButton').addEventListener('click', function () { send('command', { action: 'retry' }); });
        document.getElementById('printSlides').addEventListener('click', function () { window.open('/print', '_blank'); });

        document.addEventListener('keydown', function (e) {
            if (GLOBAL_KEYS.indexOf(e.key) >= 0 || (state === 'slide-view' && NAV_KEYS.indexOf(e.key) >= 0)) {
                e.preventDefault();
                send('key', { key: e.key });
            }
        });

        const slideContent = document.getElementById('slideContent');
        slideContent.addEventListener('touchstart', function (e) {
            touchStart = { x: e.changedTouches[0].screenX, y: e.changedTouches[0].screenY };
        }, { passive: true });
        slideContent.addEventListener('touchend', function (e) {
            if (!touchStart) { return; }
            send('swipe', { dx: e.changedTouches[0].screenX - touchStart.x, dy: e.changedTouches[0].screenY - touchStart.y });
            touchStart = null;
        }, { passive: true });

        connect();
    })();
    </script>
</body>
</html>`
