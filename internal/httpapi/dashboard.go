package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (rt *Routes) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	srcs, err := json.Marshal(rt.mon.Sources())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(strings.ReplaceAll(dashboardHTML, "__SOURCES__", string(srcs))))
}

const dashboardHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>goldwatch</title>
    <style>
      body { font-family: ui-sans-serif, system-ui, -apple-system; padding: 16px; }
      .price { font-size: 1.2em; margin: 4px 0; }
      .price.sell { color: #c00; font-weight: bold; }
      .price.buy { color: #080; font-weight: bold; }
      .status { color: #666; font-size: 0.9em; }
      .chartwrap { position: relative; display: inline-block; }
      canvas { border: 1px solid #ccc; border-radius: 6px; }
      .tip { position: absolute; background: #fff; border: 1px solid #999;
             border-radius: 6px; padding: 4px 8px; font-size: 0.85em;
             pointer-events: none; display: none; }
      .thresholds input { width: 7em; }
      #alerts { background: #111; color: #eee; padding: 12px; border-radius: 8px;
                max-height: 20vh; overflow: auto; }
    </style>
  </head>
  <body>
    <h2>Gold price monitor</h2>
    <div id="conn">Connecting…</div>
    <div id="panels"></div>
    <h3>Alerts</h3>
    <pre id="alerts"></pre>
    <script>
      const sources = __SOURCES__;
      const MAX_POINTS = 240;
      const data = {}, thresholds = {}, els = {};

      const panels = document.getElementById('panels');
      for (const s of sources) {
        data[s.id] = [];
        thresholds[s.id] = {sell: null, buy: null};

        const sec = document.createElement('section');
        sec.innerHTML =
          '<h3>' + s.name + ' (' + s.id + ')</h3>' +
          '<div class="price" id="price-' + s.id + '">–</div>' +
          '<div class="status" id="status-' + s.id + '"></div>' +
          '<div class="thresholds">' +
            'sell ≥ <input id="sell-' + s.id + '" type="number" step="0.01">' +
            ' buy ≤ <input id="buy-' + s.id + '" type="number" step="0.01">' +
            ' <button id="set-' + s.id + '">set</button>' +
          '</div>' +
          '<div class="chartwrap">' +
            '<canvas id="chart-' + s.id + '" width="720" height="240"></canvas>' +
            '<div class="tip" id="tip-' + s.id + '"></div>' +
          '</div>';
        panels.appendChild(sec);

        els[s.id] = {
          price: document.getElementById('price-' + s.id),
          status: document.getElementById('status-' + s.id),
          canvas: document.getElementById('chart-' + s.id),
          tip: document.getElementById('tip-' + s.id),
        };

        document.getElementById('set-' + s.id).onclick = () => setThresholds(s.id);
        els[s.id].canvas.onmousemove = (ev) => hover(s.id, ev);
        els[s.id].canvas.onmouseleave = () => { els[s.id].tip.style.display = 'none'; draw(s.id); };
      }

      function fmt(ts) { return new Date(ts).toLocaleTimeString(); }

      function renderPrice(id) {
        const series = data[id];
        if (!series.length) return;
        const last = series[series.length - 1];
        const t = thresholds[id];
        const el = els[id].price;
        el.textContent = last.p.toFixed(2) + '  @ ' + fmt(last.t);
        el.className = 'price';
        if (t.sell != null && last.p >= t.sell) el.className = 'price sell';
        else if (t.buy != null && last.p <= t.buy) el.className = 'price buy';
      }

      function draw(id) {
        const c = els[id].canvas, ctx = c.getContext('2d');
        ctx.clearRect(0, 0, c.width, c.height);
        const series = data[id];
        if (series.length < 2) return;

        const pad = 30;
        let lo = Math.min(...series.map(d => d.p));
        let hi = Math.max(...series.map(d => d.p));
        if (hi === lo) { hi += 0.5; lo -= 0.5; }
        const t0 = series[0].t, t1 = series[series.length - 1].t;

        const x = t => pad + (c.width - 2 * pad) * (t - t0) / (t1 - t0 || 1);
        const y = p => c.height - pad - (c.height - 2 * pad) * (p - lo) / (hi - lo);

        ctx.strokeStyle = '#ddd';
        ctx.strokeRect(pad, pad, c.width - 2 * pad, c.height - 2 * pad);

        ctx.strokeStyle = 'orange';
        ctx.beginPath();
        series.forEach((d, i) => i ? ctx.lineTo(x(d.t), y(d.p)) : ctx.moveTo(x(d.t), y(d.p)));
        ctx.stroke();

        ctx.fillStyle = '#666';
        ctx.font = '11px sans-serif';
        ctx.fillText(hi.toFixed(2), 2, pad + 4);
        ctx.fillText(lo.toFixed(2), 2, c.height - pad);

        els[id]._map = {x, y, t0, t1, lo, hi};
      }

      function hover(id, ev) {
        const series = data[id], m = els[id]._map;
        if (!series.length || !m) return;
        const rect = els[id].canvas.getBoundingClientRect();
        const mx = ev.clientX - rect.left;

        let best = 0, bestDist = Infinity;
        series.forEach((d, i) => {
          const dist = Math.abs(m.x(d.t) - mx);
          if (dist < bestDist) { bestDist = dist; best = i; }
        });
        const d = series[best];

        draw(id);
        const ctx = els[id].canvas.getContext('2d');
        ctx.strokeStyle = '#999';
        ctx.setLineDash([4, 3]);
        ctx.beginPath();
        ctx.moveTo(m.x(d.t), 0); ctx.lineTo(m.x(d.t), els[id].canvas.height);
        ctx.moveTo(0, m.y(d.p)); ctx.lineTo(els[id].canvas.width, m.y(d.p));
        ctx.stroke();
        ctx.setLineDash([]);

        const tip = els[id].tip;
        tip.textContent = fmt(d.t) + '  ' + d.p.toFixed(2);
        tip.style.display = 'block';
        tip.style.left = (m.x(d.t) + 10) + 'px';
        tip.style.top = (m.y(d.p) - 24) + 'px';
      }

      async function setThresholds(id) {
        const sell = document.getElementById('sell-' + id).value;
        const buy = document.getElementById('buy-' + id).value;
        const body = {
          sell: sell === '' ? null : parseFloat(sell),
          buy: buy === '' ? null : parseFloat(buy),
        };
        const resp = await fetch('/thresholds/' + id, {
          method: 'PUT',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify(body),
        });
        if (resp.ok) { thresholds[id] = body; renderPrice(id); }
      }

      async function load(id) {
        const hist = await (await fetch('/history/' + id)).json();
        data[id] = (hist || []).map(q => ({t: Date.parse(q.timestamp), p: q.price}));
        const t = await (await fetch('/thresholds/' + id)).json();
        thresholds[id] = t;
        if (t.sell != null) document.getElementById('sell-' + id).value = t.sell;
        if (t.buy != null) document.getElementById('buy-' + id).value = t.buy;
        renderPrice(id);
        draw(id);
      }

      async function loadStatuses() {
        const all = await (await fetch('/quotes')).json();
        for (const s of sources) {
          const e = all[s.id];
          if (e && e.status && e.status.code !== 'ok') {
            els[s.id].status.textContent = s.id + ' ' + e.status.code;
          } else {
            els[s.id].status.textContent = '';
          }
        }
      }

      sources.forEach(s => load(s.id));
      loadStatuses();

      const conn = document.getElementById('conn');
      const scheme = location.protocol === 'https:' ? 'wss' : 'ws';
      const ws = new WebSocket(scheme + '://' + location.host + '/ws');
      ws.onopen = () => conn.textContent = 'Live';
      ws.onclose = () => conn.textContent = 'Disconnected';
      ws.onerror = () => conn.textContent = 'Error';
      ws.onmessage = (ev) => {
        const msg = JSON.parse(ev.data);
        if (msg.type === 'quote' && data[msg.source]) {
          data[msg.source].push({t: Date.parse(msg.timestamp), p: msg.price});
          if (data[msg.source].length > MAX_POINTS) data[msg.source].shift();
          renderPrice(msg.source);
          draw(msg.source);
          loadStatuses();
        } else if (msg.type === 'alert') {
          const out = document.getElementById('alerts');
          out.textContent = ev.data + "\n" + out.textContent;
        }
      };
    </script>
  </body>
</html>`
