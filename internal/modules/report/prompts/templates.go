package prompts

const transcriptTmpl = `Дата: {{.Date}}
Чат: {{.Chat}}
Всего сообщений: {{.Total}}; Уникальные: {{.Unique}}; Со ссылками: {{.LinkMessages}}
Ниже сообщения за последние сутки (усечённо). Формат: [HH:MM] Автор: Текст
{{.Transcript}}`

const linksTmpl = `Дата: {{.Date}}
Чат: {{.Chat}}
Метрики: Всего {{.Total}} сообщений, {{.Unique}} участников, {{.LinkMessages}} сообщений со ссылками
АНАЛИЗ ССЫЛОК:
Общее количество ссылок: {{.TotalLinks}}
Уникальных доменов: {{len .Domains}}
Топ домены: {{join .TopDomains ", "}}
Топ шерщики ссылок: {{join .TopSharers ", "}}

ДЕТАЛЬНЫЕ ДАННЫЕ О КАЖДОЙ ССЫЛКЕ:
{{join .Details "\n\n"}}`

const metricsTmpl = `**Данные для анализа:**

Дата анализа: {{.Date}}
Чат ID: {{.Chat}}

Общая статистика:
• Всего сообщений: {{.Total}}
• Уникальных участников: {{.Unique}}
• Средняя активность на участника: {{.AvgPerUser}} сообщений
• Сообщений со ссылками: {{.LinkMessages}} ({{.LinkPct}}%)

Топ-10 участников по активности:
{{range $i, $u := .Users}}{{if $i}}
{{end}}{{$u.Rank}}. {{$u.Name}} — {{$u.Count}} сообщений ({{$u.Pct}}% от общего объёма){{end}}{{if .Concentrated}}
⚠️ Замечание: более 50% сообщений от топ-3 участников — высокая концентрация активности{{end}}
{{if .Peaks}}
Динамика по времени (показаны ключевые точки):
{{range $i, $p := .Series}}{{if $i}}
{{end}}  {{$p.At}}: {{$p.Count}} сообщений{{end}}
(Всего замеров: {{.SeriesTotal}}){{else}}
Динамика по времени:
{{range $i, $p := .Series}}{{if $i}}
{{end}}  {{$p.At}}: {{$p.Count}}{{end}}{{end}}

---

**Задание:**

**У тебя есть метрики активности**, интерпретируй паттерны:
- Кто стабильно активен, кто даёт всплески, кто молчит
- Есть ли корреляция между временем и активностью
- Кто может быть лидером мнений по объёму вклада
- Для психо-профилей используй поведенческие паттерны (частота, время, соотношение с другими)

**summary** (600-900 символов): открывающий абзац о ключевой динамике, затем раздел "Психо-профили участников:" с 5-7 авторами (обязательно топ-3) в формате "• Имя: роль/тон, краткая характеристика".

**themes** (3-5 элементов): конкретные темы для поста или активности и почему они зайдут ЭТИМ участникам.

**insights** (3-5 элементов): "Что сделать: почему это сработает". Форматы, время, баланс активности.

**Критически важно:**
- Возвращай ТОЛЬКО валидный JSON: {"summary": "...", "themes": [...], "insights": [...]}
- Не добавляй markdown-блоки и текст до или после JSON
- НЕ пересказывай метрики, делай выводы на их основе`
