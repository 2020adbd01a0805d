package dashboard

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lotview</title>
<style>
  body { font-family: monospace; background: #101014; color: #d8d8d8; margin: 2rem; }
  h1 { color: #73F59F; }
  h2 { color: #7D56F4; margin-top: 2rem; }
  canvas { background: #16161c; border: 1px solid #383838; }
  table { border-collapse: collapse; margin-top: .5rem; }
  td, th { border: 1px solid #383838; padding: .25rem .75rem; text-align: right; }
  th { color: #73F59F; }
</style>
</head>
<body>
<h1>lotview</h1>
<div id="summary"></div>
<h2>Cumulative Profit</h2>
<canvas id="cumulative" width="900" height="300"></canvas>
<h2>Profit Distribution</h2>
<canvas id="distribution" width="900" height="200"></canvas>
<h2>Profit per Period</h2>
<table id="buckets"><thead><tr><th>Period</th><th>Trades</th><th>Sum</th><th>Mean</th><th>Std Dev</th></tr></thead><tbody></tbody></table>
<h2>Monthly Percentage Profit (weighted)</h2>
<table id="monthly"><thead><tr><th>Month</th><th>Profit %</th></tr></thead><tbody></tbody></table>
<script>
async function load() {
  const summary = await (await fetch('/api/summary')).json();
  document.getElementById('summary').textContent =
    'closed: ' + summary.totalClosed + '  total pnl: ' + summary.totalProfit +
    '  win rate: ' + Number(summary.winRate).toFixed(2) + '%';

  const points = await (await fetch('/api/cumulative')).json();
  drawLine(document.getElementById('cumulative'), points.map(p => Number(p.value)));

  const bins = await (await fetch('/api/distribution')).json();
  drawBars(document.getElementById('distribution'), bins.map(b => b.count));

  const buckets = await (await fetch('/api/buckets')).json();
  const btbody = document.querySelector('#buckets tbody');
  for (const b of buckets) {
    const row = btbody.insertRow();
    for (const v of [b.key, b.count, b.sum, b.mean == null ? 'n/a' : b.mean, b.stdDev == null ? 'n/a' : b.stdDev.toFixed(4)]) {
      row.insertCell().textContent = v;
    }
  }

  const monthly = await (await fetch('/api/monthly')).json();
  const mtbody = document.querySelector('#monthly tbody');
  for (const m of monthly) {
    const row = mtbody.insertRow();
    row.insertCell().textContent = m.month;
    row.insertCell().textContent = Number(m.percent).toFixed(2) + '%';
  }
}

function drawBars(canvas, counts) {
  if (counts.length === 0) return;
  const ctx = canvas.getContext('2d');
  const max = Math.max(...counts, 1);
  const bw = canvas.width / counts.length;
  ctx.fillStyle = '#7D56F4';
  counts.forEach((c, i) => {
    const h = c / max * canvas.height;
    ctx.fillRect(i * bw + 1, canvas.height - h, bw - 2, h);
  });
}

function drawLine(canvas, values) {
  if (values.length === 0) return;
  const ctx = canvas.getContext('2d');
  const min = Math.min(0, ...values), max = Math.max(0, ...values);
  const sx = canvas.width / Math.max(1, values.length - 1);
  const sy = canvas.height / (max - min || 1);
  ctx.strokeStyle = '#73F59F';
  ctx.beginPath();
  values.forEach((v, i) => {
    const x = i * sx, y = canvas.height - (v - min) * sy;
    i === 0 ? ctx.moveTo(x, y) : ctx.lineTo(x, y);
  });
  ctx.stroke();
}

load();
</script>
</body>
</html>
`
