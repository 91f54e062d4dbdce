package sqlinline

const QUsageIncrement = `--sql 6c3f2d1a-8e4b-4f52-9a7d-0b1c9e5f3a24
insert into usage_daily (day, mode, compositions, failures)
values ($1, $2, $3, $4)
on conflict (day, mode) do update set
  compositions = usage_daily.compositions + excluded.compositions,
  failures = usage_daily.failures + excluded.failures;
`

const QUsageSummary = `--sql 2b9a4e77-5d10-4c8f-b3e6-7f2a8d914c05
select day, mode, compositions, failures
from usage_daily
order by day desc, mode
limit $1;
`
